// Package automaton runs a 9-state cellular automaton on a fixed grid.
//
// Three transition rules are available:
//
//   - [RuleA]: weighted Moore sum modulo the state count. Orthogonal
//     neighbours weigh 2, diagonal ones 1. A cell whose in-bounds neighbours
//     all equal it jumps by 4 states. Border cells see only in-bounds
//     neighbours and add 1 to their sum.
//   - [RuleB]: majority vote over the toroidal Moore neighbourhood. Ties go
//     to the candidate with the lowest global frequency, then the lowest
//     state. Every MutationPeriod steps one random cell takes a random state.
//   - [RuleC]: cyclic predator-prey. A cell advances to s+1 when any
//     toroidal neighbour holds s+1. Border cells are then reseeded with
//     probability BorderNoise.
//
// Updates are double-buffered: every cell of a step reads the previous
// generation.
package automaton

import (
	"fmt"
	"strings"

	"github.com/matzehuels/sketchbook/pkg/errors"
	"github.com/matzehuels/sketchbook/pkg/rng"
)

// NumStates is the number of cell states.
const NumStates = 9

const (
	// DefaultMutationPeriod is the RuleB mutation interval in steps.
	DefaultMutationPeriod = 16
	// DefaultBorderNoise is the RuleC per-border-cell reseed probability.
	DefaultBorderNoise = 0.05
)

// Rule selects a transition function.
type Rule int

const (
	RuleA Rule = iota
	RuleB
	RuleC
)

func (r Rule) String() string {
	switch r {
	case RuleA:
		return "a"
	case RuleB:
		return "b"
	case RuleC:
		return "c"
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// ParseRule accepts "a", "b" or "c" in any case.
func ParseRule(s string) (Rule, error) {
	switch strings.ToLower(s) {
	case "a":
		return RuleA, nil
	case "b":
		return RuleB, nil
	case "c":
		return RuleC, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown automaton rule %q", s)
}

// Option configures an Automaton.
type Option func(*Automaton)

// WithMutationPeriod sets the RuleB mutation interval. Zero disables it.
func WithMutationPeriod(n int) Option { return func(a *Automaton) { a.mutationPeriod = n } }

// WithBorderNoise sets the RuleC border reseed probability.
func WithBorderNoise(p float64) Option { return func(a *Automaton) { a.borderNoise = p } }

// Automaton is a double-buffered grid of states in [0, NumStates).
type Automaton struct {
	w, h  int
	rule  Rule
	cur   []uint8
	nxt   []uint8
	steps int
	r     *rng.RNG

	mutationPeriod int
	borderNoise    float64
}

// New returns a w×h automaton filled with uniformly random states drawn
// from seed.
func New(w, h int, rule Rule, seed int64, opts ...Option) *Automaton {
	a := &Automaton{
		w: w, h: h, rule: rule,
		cur:            make([]uint8, w*h),
		nxt:            make([]uint8, w*h),
		r:              rng.New(seed),
		mutationPeriod: DefaultMutationPeriod,
		borderNoise:    DefaultBorderNoise,
	}
	for _, opt := range opts {
		opt(a)
	}
	for i := range a.cur {
		a.cur[i] = uint8(a.r.IntN(NumStates))
	}
	return a
}

// Load replaces the current generation. cells must hold w*h states.
func (a *Automaton) Load(cells []uint8) error {
	if len(cells) != len(a.cur) {
		return errors.New(errors.ErrCodeInvalidInput, "expected %d cells, got %d", len(a.cur), len(cells))
	}
	for i, c := range cells {
		if c >= NumStates {
			return errors.New(errors.ErrCodeInvalidInput, "cell %d has state %d", i, c)
		}
	}
	copy(a.cur, cells)
	return nil
}

// Size returns the grid dimensions.
func (a *Automaton) Size() (int, int) { return a.w, a.h }

// Rule returns the active rule.
func (a *Automaton) Rule() Rule { return a.rule }

// Steps returns the number of generations computed so far.
func (a *Automaton) Steps() int { return a.steps }

// At returns the state of cell (x, y).
func (a *Automaton) At(x, y int) uint8 { return a.cur[y*a.w+x] }

// Cells returns a copy of the current generation in row-major order.
func (a *Automaton) Cells() []uint8 {
	out := make([]uint8, len(a.cur))
	copy(out, a.cur)
	return out
}

// Counts returns how many cells hold each state.
func (a *Automaton) Counts() [NumStates]int {
	var n [NumStates]int
	for _, c := range a.cur {
		n[c]++
	}
	return n
}

// Step advances one generation.
func (a *Automaton) Step() {
	switch a.rule {
	case RuleA:
		a.stepA()
	case RuleB:
		a.stepB()
	case RuleC:
		a.stepC()
	}
	a.cur, a.nxt = a.nxt, a.cur
	a.steps++
	a.afterStep()
}

// Run advances n generations.
func (a *Automaton) Run(n int) {
	for range n {
		a.Step()
	}
}

var moore = [8][3]int{
	{-1, -1, 1}, {0, -1, 2}, {1, -1, 1},
	{-1, 0, 2}, {1, 0, 2},
	{-1, 1, 1}, {0, 1, 2}, {1, 1, 1},
}

func (a *Automaton) border(x, y int) bool {
	return x == 0 || y == 0 || x == a.w-1 || y == a.h-1
}

func (a *Automaton) wrapped(x, y int) uint8 {
	x = (x%a.w + a.w) % a.w
	y = (y%a.h + a.h) % a.h
	return a.cur[y*a.w+x]
}

func (a *Automaton) stepA() {
	for y := range a.h {
		for x := range a.w {
			self := a.cur[y*a.w+x]
			sum, uniform := 0, true
			for _, n := range moore {
				nx, ny := x+n[0], y+n[1]
				if nx < 0 || ny < 0 || nx >= a.w || ny >= a.h {
					continue
				}
				s := a.cur[ny*a.w+nx]
				sum += int(s) * n[2]
				if s != self {
					uniform = false
				}
			}
			var next uint8
			switch {
			case uniform:
				next = (self + 4) % NumStates
			case a.border(x, y):
				next = uint8((sum + 1) % NumStates)
			default:
				next = uint8(sum % NumStates)
			}
			a.nxt[y*a.w+x] = next
		}
	}
}

func (a *Automaton) stepB() {
	global := a.Counts()
	for y := range a.h {
		for x := range a.w {
			var local [NumStates]int
			for _, n := range moore {
				local[a.wrapped(x+n[0], y+n[1])]++
			}
			a.nxt[y*a.w+x] = majority(local, global)
		}
	}
}

// majority returns the most common state in local. Ties go to the state
// with the lowest count in global, then to the lowest state.
func majority(local, global [NumStates]int) uint8 {
	best := 0
	for s := 1; s < NumStates; s++ {
		switch {
		case local[s] > local[best]:
			best = s
		case local[s] == local[best] && global[s] < global[best]:
			best = s
		}
	}
	return uint8(best)
}

func (a *Automaton) stepC() {
	for y := range a.h {
		for x := range a.w {
			self := a.cur[y*a.w+x]
			prey := (self + 1) % NumStates
			next := self
			for _, n := range moore {
				if a.wrapped(x+n[0], y+n[1]) == prey {
					next = prey
					break
				}
			}
			a.nxt[y*a.w+x] = next
		}
	}
}

// afterStep applies the rule's stochastic perturbation to the new
// generation.
func (a *Automaton) afterStep() {
	switch a.rule {
	case RuleB:
		if a.mutationPeriod > 0 && a.steps%a.mutationPeriod == 0 {
			i := a.r.IntN(len(a.cur))
			a.cur[i] = uint8(a.r.IntN(NumStates))
		}
	case RuleC:
		for y := range a.h {
			for x := range a.w {
				if a.border(x, y) && a.r.Chance(a.borderNoise) {
					a.cur[y*a.w+x] = uint8(a.r.IntN(NumStates))
				}
			}
		}
	}
}
