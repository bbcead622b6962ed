package config

import (
	"testing"

	"github.com/itstherealjasper/pumpkin/internal/optimize"
	"github.com/itstherealjasper/pumpkin/internal/sat"
)

func TestOptions_SATOptions_RestartStrategy(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    sat.RestartStrategy
		wantErr bool
	}{
		{"glucose", "glucose", sat.RestartGlucose, false},
		{"luby", "luby", sat.RestartLuby, false},
		{"constant", "constant", sat.RestartConstant, false},
		{"unknown", "bogus", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Default()
			o.RestartStrategy = tt.value
			got, err := o.SATOptions()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error for restart-strategy %q", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("SATOptions: %v", err)
			}
			if got.RestartStrategy != tt.want {
				t.Errorf("RestartStrategy = %v, want %v", got.RestartStrategy, tt.want)
			}
		})
	}
}

func TestOptions_ValueSelectionPolicy(t *testing.T) {
	tests := []struct {
		value string
		want  optimize.ValueSelection
	}{
		{"phase-saving", optimize.PhaseSaving},
		{"solution-guided-search", optimize.SolutionGuided},
		{"optimistic", optimize.Optimistic},
		{"optimistic-aux", optimize.OptimisticAux},
	}
	for _, tt := range tests {
		o := Default()
		o.ValueSelection = tt.value
		got, err := o.ValueSelectionPolicy()
		if err != nil {
			t.Fatalf("ValueSelectionPolicy(%q): %v", tt.value, err)
		}
		if got != tt.want {
			t.Errorf("ValueSelectionPolicy(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}

	o := Default()
	o.ValueSelection = "not-a-policy"
	if _, err := o.ValueSelectionPolicy(); err == nil {
		t.Error("expected an error for an unknown value-selection")
	}
}

func TestOptions_StratificationMode(t *testing.T) {
	tests := []struct {
		value string
		want  optimize.Stratification
	}{
		{"off", optimize.StratOff},
		{"basic", optimize.StratBasic},
		{"ratio", optimize.StratRatio},
	}
	for _, tt := range tests {
		o := Default()
		o.Stratification = tt.value
		got, err := o.StratificationMode()
		if err != nil {
			t.Fatalf("StratificationMode(%q): %v", tt.value, err)
		}
		if got != tt.want {
			t.Errorf("StratificationMode(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestOptions_VaryingResolutionMode(t *testing.T) {
	for _, value := range []string{"off", "basic", "ratio"} {
		o := Default()
		o.VaryingResolution = value
		got, err := o.VaryingResolutionMode()
		if err != nil {
			t.Fatalf("VaryingResolutionMode(%q): %v", value, err)
		}
		if got != value {
			t.Errorf("VaryingResolutionMode(%q) = %q, want %q", value, got, value)
		}
	}

	o := Default()
	o.VaryingResolution = "bogus"
	if _, err := o.VaryingResolutionMode(); err == nil {
		t.Error("expected an error for an unknown varying-resolution value")
	}
}

func TestOptions_FlagSet_OverridesDefault(t *testing.T) {
	o := Default()
	fs := o.FlagSet("test")
	if err := fs.Parse([]string{"--restart-strategy=luby", "--lbd-threshold=9"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.RestartStrategy != "luby" {
		t.Errorf("RestartStrategy = %q, want luby", o.RestartStrategy)
	}
	if o.LBDThreshold != 9 {
		t.Errorf("LBDThreshold = %d, want 9", o.LBDThreshold)
	}
}
