package catalog

import "testing"

func TestNodes_Canonical(t *testing.T) {
	nodes := Nodes()
	if len(nodes) != 4 {
		t.Fatalf("Nodes: got %d entries, want 4", len(nodes))
	}

	wantIDs := []string{"CAP-LP", "GILA-ESTRELLA", "GILA-KELVIN", "CRB-SALINITY"}
	for i, id := range wantIDs {
		if nodes[i].ID != id {
			t.Errorf("Nodes[%d].ID: got %q, want %q", i, nodes[i].ID, id)
		}
		if nodes[i].Waterbody == "" {
			t.Errorf("Nodes[%d] (%s): empty waterbody label", i, id)
		}
		if nodes[i].Volume <= 0 {
			t.Errorf("Nodes[%d] (%s): non-positive volume %v", i, id, nodes[i].Volume)
		}
	}
}

func TestContaminants_Canonical(t *testing.T) {
	tests := []struct {
		id      string
		weight  float64
		refConc float64
		unit    string
	}{
		{"PFBS", 1.0, 4.0, "ng/L"},
		{"Ecoli", 3.0, 235.0, "MPN/100mL"},
		{"TotalPhosphorus", 2.0, 0.10, "mg/L"},
		{"SalinityTDS", 0.67, 800.0, "mg/L"},
	}

	benches := Contaminants()
	if len(benches) != len(tests) {
		t.Fatalf("Contaminants: got %d entries, want %d", len(benches), len(tests))
	}

	for i, tt := range tests {
		b := benches[i]
		if b.ID != tt.id {
			t.Errorf("Contaminants[%d].ID: got %q, want %q", i, b.ID, tt.id)
		}
		if b.Weight != tt.weight {
			t.Errorf("%s Weight: got %v, want %v", tt.id, b.Weight, tt.weight)
		}
		if b.RefConc != tt.refConc {
			t.Errorf("%s RefConc: got %v, want %v", tt.id, b.RefConc, tt.refConc)
		}
		if b.Unit != tt.unit {
			t.Errorf("%s Unit: got %q, want %q", tt.id, b.Unit, tt.unit)
		}
	}
}

func TestContaminantByID(t *testing.T) {
	b, ok := ContaminantByID("Ecoli")
	if !ok {
		t.Fatal("ContaminantByID(Ecoli): not found")
	}
	if b.RefConc != 235.0 {
		t.Errorf("RefConc: got %v, want 235", b.RefConc)
	}

	if _, ok := ContaminantByID("Lead"); ok {
		t.Error("ContaminantByID(Lead): expected not found")
	}
}

func TestTables_ReturnCopies(t *testing.T) {
	// Mutating a returned slice must not leak into later calls.
	nodes := Nodes()
	nodes[0].ID = "MUTATED"
	if Nodes()[0].ID != "CAP-LP" {
		t.Error("Nodes: mutation of a returned slice leaked into the table")
	}

	benches := Contaminants()
	benches[0].RefConc = -1
	if Contaminants()[0].RefConc != 4.0 {
		t.Error("Contaminants: mutation of a returned slice leaked into the table")
	}
}
