package ceim

import (
	"math"
	"testing"
)

// almostEqual returns true if a and b are within epsilon of each other.
func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

var (
	testNode  = Node{ID: "TEST-NODE", Waterbody: "Test Water", Volume: 1.0e6}
	testBench = Benchmark{ID: "TEST-C", Weight: 1.0, RefConc: 10.0, Unit: "mg/L"}
)

func TestCompute_WorkedExample(t *testing.T) {
	// Two 1-hour steps, Cin 20, Cout 10, Q 1 m3/s.
	// dC = 10, Cref = 10, so Kn = 1 * (10/10) * 1 * 7200 = 7200
	// and MassLoad = 10 * 1 * 7200 = 72000.
	series := []Sample{
		{T: 0, Cin: 20, Cout: 10, Q: 1},
		{T: 3600, Cin: 20, Cout: 10, Q: 1},
		{T: 7200, Cin: 20, Cout: 10, Q: 1},
	}

	res := Compute(testNode, testBench, series)

	if res.NodeID != "TEST-NODE" || res.ContaminantID != "TEST-C" {
		t.Errorf("identifiers: got (%q, %q), want (TEST-NODE, TEST-C)",
			res.NodeID, res.ContaminantID)
	}
	if !almostEqual(res.Kn, 7200.0, 1e-6) {
		t.Errorf("Kn: got %v, want 7200", res.Kn)
	}
	if !almostEqual(res.MassLoad, 72000.0, 1e-6) {
		t.Errorf("MassLoad: got %v, want 72000", res.MassLoad)
	}
}

func TestCompute_DegenerateInputs(t *testing.T) {
	series := []Sample{
		{T: 0, Cin: 20, Cout: 10, Q: 1},
		{T: 3600, Cin: 20, Cout: 10, Q: 1},
	}

	tests := []struct {
		name   string
		bench  Benchmark
		series []Sample
	}{
		{
			name:   "empty series",
			bench:  testBench,
			series: nil,
		},
		{
			name:   "zero reference concentration",
			bench:  Benchmark{ID: "TEST-C", Weight: 1, RefConc: 0, Unit: "mg/L"},
			series: series,
		},
		{
			name:   "negative reference concentration",
			bench:  Benchmark{ID: "TEST-C", Weight: 1, RefConc: -5, Unit: "mg/L"},
			series: series,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(testNode, tt.bench, tt.series)
			if res.Kn != 0 || res.MassLoad != 0 {
				t.Errorf("got (Kn=%v, MassLoad=%v), want zero result", res.Kn, res.MassLoad)
			}
			if res.NodeID != testNode.ID || res.ContaminantID != tt.bench.ID {
				t.Errorf("zero result must still carry identifiers, got (%q, %q)",
					res.NodeID, res.ContaminantID)
			}
		})
	}
}

func TestCompute_FirstSampleNeverContributes(t *testing.T) {
	// A single sample has a zero gap against itself.
	res := Compute(testNode, testBench, []Sample{{T: 100, Cin: 50, Cout: 0, Q: 10}})
	if res.Kn != 0 || res.MassLoad != 0 {
		t.Errorf("single sample: got (Kn=%v, MassLoad=%v), want zero result", res.Kn, res.MassLoad)
	}
}

func TestCompute_EqualSteps(t *testing.T) {
	// For n equal steps of size dt with constant values, exactly n-1 steps
	// contribute: MassLoad = dC*Q*dt*(n-1), Kn = w*(dC/R)*Q*dt*(n-1).
	const (
		n   = 5
		dt  = 60.0
		cin = 8.0
		cout = 3.0
		q   = 2.0
	)
	bench := Benchmark{ID: "TEST-C", Weight: 2.0, RefConc: 4.0, Unit: "mg/L"}

	series := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		series = append(series, Sample{T: float64(i) * dt, Cin: cin, Cout: cout, Q: q})
	}

	res := Compute(testNode, bench, series)

	wantMass := (cin - cout) * q * dt * (n - 1)
	wantKn := bench.Weight * ((cin - cout) / bench.RefConc) * q * dt * (n - 1)
	if !almostEqual(res.MassLoad, wantMass, 1e-9) {
		t.Errorf("MassLoad: got %v, want %v", res.MassLoad, wantMass)
	}
	if !almostEqual(res.Kn, wantKn, 1e-9) {
		t.Errorf("Kn: got %v, want %v", res.Kn, wantKn)
	}
}

func TestCompute_SkipsNonMonotonicRows(t *testing.T) {
	// t=100: gap 100, contributes. t=50: gap -50, skipped but advances the
	// running timestamp. t=150: gap 100 against the rewound timestamp,
	// contributes. Duplicate t=150: gap 0, skipped.
	series := []Sample{
		{T: 0, Cin: 20, Cout: 10, Q: 1},
		{T: 100, Cin: 20, Cout: 10, Q: 1},
		{T: 50, Cin: 20, Cout: 10, Q: 1},
		{T: 150, Cin: 20, Cout: 10, Q: 1},
		{T: 150, Cin: 20, Cout: 10, Q: 1},
	}

	res := Compute(testNode, testBench, series)

	// Contributing gaps: 100 + 100 = 200 seconds at dC=10, Q=1.
	if !almostEqual(res.MassLoad, 2000.0, 1e-9) {
		t.Errorf("MassLoad: got %v, want 2000", res.MassLoad)
	}
	if !almostEqual(res.Kn, 200.0, 1e-9) {
		t.Errorf("Kn: got %v, want 200", res.Kn)
	}
}

func TestCompute_NegativeExcessAccumulates(t *testing.T) {
	// Outflow above inflow drives both accumulators negative; the engine
	// does not clamp.
	series := []Sample{
		{T: 0, Cin: 5, Cout: 15, Q: 2},
		{T: 10, Cin: 5, Cout: 15, Q: 2},
	}

	res := Compute(testNode, testBench, series)

	if !almostEqual(res.MassLoad, -200.0, 1e-9) {
		t.Errorf("MassLoad: got %v, want -200", res.MassLoad)
	}
	if !almostEqual(res.Kn, -20.0, 1e-9) {
		t.Errorf("Kn: got %v, want -20", res.Kn)
	}
}
