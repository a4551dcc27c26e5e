package errors

import (
	"math"
	"testing"
)

func TestValidateRunID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid uuid", "3f1c5f9e-4b1a-4c8e-9d3e-2a6b7c8d9e0f", false},
		{"empty", "", true},
		{"not a uuid", "run-1", true},
		{"path traversal", "../../etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRunID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRunID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidRunID) {
				t.Errorf("ValidateRunID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidRunID)
			}
		})
	}
}

func TestValidateProbability(t *testing.T) {
	tests := []struct {
		name    string
		p       float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"middle", 0.33, false},
		{"negative", -0.1, true},
		{"above one", 1.01, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProbability("green", tt.p)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProbability(%v) error = %v, wantErr %v", tt.p, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple file", "graph.json", false},
		{"nested file", "out/graph.svg", false},
		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"control char", "graph\x01.json", true},
		{"directory", "out/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
