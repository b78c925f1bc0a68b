package search

import (
	"testing"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"uniform", StrategyUniform, false},
		{"", StrategyUniform, false},
		{"bestof", StrategyBestOf, false},
		{"best-of", StrategyBestOf, false},
		{"BestOf", StrategyBestOf, false},
		{"  uniform  ", StrategyUniform, false},
		{"genetic", "", true},
		{"best of", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStrategy(%q): expected error", tt.in)
			} else if !errors.Is(err, errors.ErrCodeInvalidStrategy) {
				t.Errorf("ParseStrategy(%q): wrong code: %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStrategy(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStrategy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStrategiesListsBoth(t *testing.T) {
	names := Strategies()
	if len(names) != 2 {
		t.Fatalf("Strategies() = %v", names)
	}
	for _, name := range names {
		if _, err := ParseStrategy(name); err != nil {
			t.Errorf("listed strategy %q does not parse: %v", name, err)
		}
	}
}

func TestNewSourceSelectsImplementation(t *testing.T) {
	eval := mustEvaluator(t, mustTarget(t, starPolygon, 12, 12))

	if _, ok := NewSource(StrategyUniform, eval, 5, 1, 0).(*UniformSource); !ok {
		t.Error("uniform strategy did not build a UniformSource")
	}
	if _, ok := NewSource(StrategyBestOf, eval, 5, 1, 0).(*BestOfSource); !ok {
		t.Error("bestof strategy did not build a BestOfSource")
	}
}
