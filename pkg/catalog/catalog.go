package catalog

import "github.com/phxeconet/ceim/pkg/ceim"

// Nodes returns the canonical monitoring nodes in report order.
func Nodes() []ceim.Node {
	return []ceim.Node{
		// CAP terminal storage on the Agua Fria.
		{ID: "CAP-LP", Waterbody: "Lake Pleasant", Volume: 1.2e9},
		{ID: "GILA-ESTRELLA", Waterbody: "Gila River at Estrella Parkway", Volume: 5.0e6},
		{ID: "GILA-KELVIN", Waterbody: "Gila River at Kelvin", Volume: 5.0e6},
		{ID: "CRB-SALINITY", Waterbody: "Lower Colorado salinity control", Volume: 1.0e9},
	}
}

// Contaminants returns the canonical benchmark table in report order.
// Weights and reference concentrations are fixed program configuration;
// every node tracking a contaminant shares the same entry.
func Contaminants() []ceim.Benchmark {
	return []ceim.Benchmark{
		// Chronic PFAS risk; Lake Pleasant PFBS observed near 3.9 ng/L.
		{ID: "PFBS", Weight: 1.0, RefConc: 4.0, Unit: "ng/L"},
		// Acute microbial risk; recreational-contact benchmark.
		{ID: "Ecoli", Weight: 3.0, RefConc: 235.0, Unit: "MPN/100mL"},
		// Eutrophication driver; typical poor-condition threshold.
		{ID: "TotalPhosphorus", Weight: 2.0, RefConc: 0.10, Unit: "mg/L"},
		// Economic salinity damage; basin salinity program reference.
		{ID: "SalinityTDS", Weight: 0.67, RefConc: 800.0, Unit: "mg/L"},
	}
}

// ContaminantByID looks up a benchmark by its identifier.
func ContaminantByID(id string) (ceim.Benchmark, bool) {
	for _, b := range Contaminants() {
		if b.ID == id {
			return b, true
		}
	}
	return ceim.Benchmark{}, false
}

// NodeByID looks up a node by its identifier.
func NodeByID(id string) (ceim.Node, bool) {
	for _, n := range Nodes() {
		if n.ID == id {
			return n, true
		}
	}
	return ceim.Node{}, false
}
