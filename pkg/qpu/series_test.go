package qpu

import (
	"os"
	"path/filepath"
	"testing"
)

// writeShard writes content to a temp file and returns its path.
func writeShard(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "shard.csv")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write shard: %v", err)
	}
	return p
}

func TestLoadSeries_GroupsByKeyInFileOrder(t *testing.T) {
	p := writeShard(t, `node_id,contaminant,t,Cin,Cout,Q
CAP-LP,PFBS,0,5.1,4.0,2.0
GILA-KELVIN,Ecoli,0,400,100,3.5
CAP-LP,PFBS,3600,5.3,4.1,2.1
`)

	byKey, skipped, err := LoadSeries(p)
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped: got %d, want 0", skipped)
	}
	if len(byKey) != 2 {
		t.Fatalf("keys: got %d, want 2", len(byKey))
	}

	lp := byKey["CAP-LP:PFBS"]
	if len(lp) != 2 {
		t.Fatalf("CAP-LP:PFBS samples: got %d, want 2", len(lp))
	}
	if lp[0].T != 0 || lp[1].T != 3600 {
		t.Errorf("file order not preserved: T = %v, %v", lp[0].T, lp[1].T)
	}
	if lp[1].Cin != 5.3 || lp[1].Cout != 4.1 || lp[1].Q != 2.1 {
		t.Errorf("sample fields: got %+v", lp[1])
	}

	if got := byKey["GILA-KELVIN:Ecoli"]; len(got) != 1 || got[0].Q != 3.5 {
		t.Errorf("GILA-KELVIN:Ecoli: got %+v", got)
	}
}

func TestLoadSeries_SkipsShortRows(t *testing.T) {
	p := writeShard(t, `node_id,contaminant,t,Cin,Cout,Q
CAP-LP,PFBS,0,5.1,4.0
CAP-LP,PFBS,0,5.1,4.0,2.0
GILA-KELVIN
`)

	byKey, skipped, err := LoadSeries(p)
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if skipped != 2 {
		t.Errorf("skipped: got %d, want 2", skipped)
	}
	if len(byKey) != 1 || len(byKey["CAP-LP:PFBS"]) != 1 {
		t.Errorf("series map: got %v", byKey)
	}
}

func TestLoadSeries_BadNumericFieldIsFatal(t *testing.T) {
	p := writeShard(t, `node_id,contaminant,t,Cin,Cout,Q
CAP-LP,PFBS,notatime,5.1,4.0,2.0
`)

	if _, _, err := LoadSeries(p); err == nil {
		t.Fatal("LoadSeries: expected error for unparseable timestamp, got nil")
	}
}

func TestLoadSeries_EmptyFile(t *testing.T) {
	p := writeShard(t, "")

	byKey, skipped, err := LoadSeries(p)
	if err != nil {
		t.Fatalf("LoadSeries on empty file: %v", err)
	}
	if len(byKey) != 0 || skipped != 0 {
		t.Errorf("empty file: got %d keys, %d skipped; want 0, 0", len(byKey), skipped)
	}
}

func TestLoadSeries_HeaderOnly(t *testing.T) {
	p := writeShard(t, "node_id,contaminant,t,Cin,Cout,Q\n")

	byKey, _, err := LoadSeries(p)
	if err != nil {
		t.Fatalf("LoadSeries on header-only file: %v", err)
	}
	if len(byKey) != 0 {
		t.Errorf("header-only file: got %d keys, want 0", len(byKey))
	}
}

func TestLoadSeries_MissingFile(t *testing.T) {
	if _, _, err := LoadSeries(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("LoadSeries: expected error for missing file, got nil")
	}
}

func TestKey(t *testing.T) {
	if got := Key("CAP-LP", "PFBS"); got != "CAP-LP:PFBS" {
		t.Errorf("Key: got %q, want CAP-LP:PFBS", got)
	}
}
