package automaton

import (
	"slices"
	"testing"
)

func TestStateBound(t *testing.T) {
	for _, rule := range []Rule{RuleA, RuleB, RuleC} {
		t.Run(rule.String(), func(t *testing.T) {
			a := New(24, 17, rule, 9)
			for step := range 64 {
				for i, c := range a.Cells() {
					if c >= NumStates {
						t.Fatalf("step %d cell %d state %d out of range", step, i, c)
					}
				}
				a.Step()
			}
			if a.Steps() != 64 {
				t.Errorf("Steps() = %d", a.Steps())
			}
		})
	}
}

func TestRuleBTieBreak(t *testing.T) {
	tests := []struct {
		name   string
		centre uint8
		want   uint8
	}{
		// Neighbours of the centre hold 1,1,2,2,5,6,7,8 on a 3x3 torus.
		{"state 1 globally commoner", 1, 2},
		{"state 2 globally commoner", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(3, 3, RuleB, 1)
			cells := []uint8{
				1, 1, 2,
				2, tt.centre, 5,
				6, 7, 8,
			}
			if err := a.Load(cells); err != nil {
				t.Fatal(err)
			}
			a.Step()
			if got := a.At(1, 1); got != tt.want {
				t.Errorf("centre = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMajorityLowestStateOnFullTie(t *testing.T) {
	var local, global [NumStates]int
	local[3], local[6] = 4, 4
	global[3], global[6] = 10, 10
	if got := majority(local, global); got != 3 {
		t.Errorf("majority = %d, want 3", got)
	}
}

func TestRuleAUniformJump(t *testing.T) {
	a := New(3, 3, RuleA, 1)
	if err := a.Load(slices.Repeat([]uint8{3}, 9)); err != nil {
		t.Fatal(err)
	}
	a.Step()
	for i, c := range a.Cells() {
		if c != 7 {
			t.Errorf("cell %d = %d, want 7", i, c)
		}
	}
}

func TestRuleAWeightedSum(t *testing.T) {
	a := New(3, 3, RuleA, 1)
	cells := []uint8{
		0, 1, 0,
		1, 0, 1,
		0, 1, 0,
	}
	if err := a.Load(cells); err != nil {
		t.Fatal(err)
	}
	a.Step()
	// Centre: four orthogonal 1s weigh 2 each.
	if got := a.At(1, 1); got != 8 {
		t.Errorf("centre = %d, want 8", got)
	}
	// Corner (0,0): orthogonal (1,0) and (0,1) give 4, diagonal 0, plus the
	// border bonus.
	if got := a.At(0, 0); got != 5 {
		t.Errorf("corner = %d, want 5", got)
	}
}

func TestRuleCPredation(t *testing.T) {
	a := New(3, 3, RuleC, 1, WithBorderNoise(0))
	cells := make([]uint8, 9)
	cells[0] = 1
	if err := a.Load(cells); err != nil {
		t.Fatal(err)
	}
	a.Step()
	for i, c := range a.Cells() {
		if c != 1 {
			t.Errorf("cell %d = %d, want 1", i, c)
		}
	}
}

func TestSameSeedSameRun(t *testing.T) {
	a := New(5, 5, RuleB, 3, WithMutationPeriod(4))
	b := New(5, 5, RuleB, 3, WithMutationPeriod(4))
	a.Run(32)
	b.Run(32)
	if !slices.Equal(a.Cells(), b.Cells()) {
		t.Error("same seed diverged")
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	a := New(2, 2, RuleA, 1)
	if err := a.Load([]uint8{0, 1, 2}); err == nil {
		t.Error("short grid accepted")
	}
	if err := a.Load([]uint8{0, 1, 2, 9}); err == nil {
		t.Error("out-of-range state accepted")
	}
}

func TestParseRule(t *testing.T) {
	for in, want := range map[string]Rule{"a": RuleA, "B": RuleB, "c": RuleC} {
		got, err := ParseRule(in)
		if err != nil || got != want {
			t.Errorf("ParseRule(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseRule("d"); err == nil {
		t.Error("ParseRule(d) should fail")
	}
}
