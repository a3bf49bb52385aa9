package ceim

// Compute accumulates the node impact score Kn and the mass load for one
// (node, contaminant) pair over an ordered sample series.
//
// The integration rule is a left-endpoint quadrature against the gap since
// the previous row: each sample's own concentrations and discharge are
// multiplied by the time elapsed since the prior timestamp. A row whose gap
// is zero or negative only advances the running timestamp, so duplicate or
// out-of-order rows never contribute. The first sample of any series
// contributes nothing, its gap against itself being zero. Downstream karma
// accounting depends on these exact numbers, so no trapezoidal averaging.
//
// An empty series or a benchmark with RefConc <= 0 yields the zero Result,
// a degenerate but valid output rather than an error.
//
// Compute is pure: it does not mutate its inputs, does not sort, and keeps
// no state between calls. NaN or Inf samples propagate into the result.
func Compute(node Node, bench Benchmark, series []Sample) Result {
	out := Result{NodeID: node.ID, ContaminantID: bench.ID}

	if len(series) == 0 || bench.RefConc <= 0 {
		return out
	}

	lastT := series[0].T
	for _, s := range series {
		dt := s.T - lastT
		if dt <= 0 {
			lastT = s.T
			continue
		}

		dC := s.Cin - s.Cout
		out.MassLoad += dC * s.Q * dt
		out.Kn += bench.Weight * (dC / bench.RefConc) * s.Q * dt

		lastT = s.T
	}

	return out
}
