package errors

import (
	"testing"
)

func TestValidateSketchName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "packing", false},
		{"with dash", "iso-city", false},
		{"with digit", "day13", false},

		{"empty", "", true},
		{"upper", "Packing", true},
		{"trailing dash", "packing-", true},
		{"path", "../packing", true},
		{"too long", string(make([]byte, 80)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSketchName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSketchName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateParamKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"camel", "maxR", false},
		{"underscore", "border_noise", false},

		{"empty", "", true},
		{"leading digit", "2x", true},
		{"dash", "max-r", true},
		{"space", "max r", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParamKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateParamKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/genuary.png", false},
		{"absolute", "/tmp/out", false},

		{"empty", "", true},
		{"traversal", "out/../../etc", true},
		{"backslash", "out\\file", true},
		{"null byte", "out\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHexColor(t *testing.T) {
	for _, ok := range []string{"#fff", "#1A2b3C"} {
		if err := ValidateHexColor(ok); err != nil {
			t.Errorf("ValidateHexColor(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "fff", "#ffff", "#ggg"} {
		if err := ValidateHexColor(bad); err == nil {
			t.Errorf("ValidateHexColor(%q) = nil, want error", bad)
		}
	}
}
