package ceim

// Sample is one timestamped observation at a node's control boundary.
type Sample struct {
	// T is the sample time in seconds since the Unix epoch (UTC).
	// Series are expected to be non-decreasing in T but this is not
	// enforced; Compute skips rows that go backwards or repeat.
	T float64

	// Cin is the inflow concentration in the contaminant's canonical unit.
	Cin float64

	// Cout is the outflow concentration, same unit as Cin.
	Cout float64

	// Q is the volumetric discharge in m3/s.
	Q float64
}

// Benchmark defines how one contaminant's concentration excess is weighted
// and normalized. Benchmarks are built once at startup and shared read-only
// across every node that tracks the contaminant.
type Benchmark struct {
	// ID is the contaminant identifier, e.g. "PFBS" or "Ecoli".
	ID string

	// Weight is the dimensionless hazard weight w_x, expected >= 0.
	Weight float64

	// RefConc is the reference concentration C_ref,x in Unit.
	// It must be positive for Compute to produce a non-zero score.
	RefConc float64

	// Unit is the canonical concentration unit, e.g. "ng/L", "MPN/100mL".
	Unit string
}

// Node identifies a monitored water body or control point.
type Node struct {
	// ID is the stable node identifier, e.g. "CAP-LP".
	ID string

	// Waterbody is the descriptive label, e.g. "Lake Pleasant".
	Waterbody string

	// Volume is the control volume in m3. It is carried for residence-time
	// work downstream and does not enter the impact calculation.
	Volume float64
}

// Result is the accumulated output of one engine invocation for one
// (node, contaminant) pair. Returned by value; never mutated afterwards.
type Result struct {
	NodeID        string
	ContaminantID string

	// Kn is the dimensionless node impact score:
	// w_x * sum((Cin-Cout)/C_ref * Q * dt) over the series.
	Kn float64

	// MassLoad is the unnormalized load sum((Cin-Cout) * Q * dt),
	// in concentration-unit * m3.
	MassLoad float64
}
