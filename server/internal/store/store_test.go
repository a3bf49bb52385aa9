package store

import (
	"sync"
	"testing"
	"time"

	"github.com/phxeconet/ceim/pkg/ceim"
)

func result(node, cid string) ceim.Result {
	return ceim.Result{NodeID: node, ContaminantID: cid, Kn: 7200, MassLoad: 72000}
}

// fixedClock returns a func() time.Time that always returns t.
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestPutAndGet(t *testing.T) {
	st := New(5 * time.Minute)
	st.Put(result("CAP-LP", "PFBS"))

	e, ok := st.Get("CAP-LP:PFBS")
	if !ok {
		t.Fatal("Get: expected entry, got none")
	}
	if e.Result.NodeID != "CAP-LP" {
		t.Errorf("NodeID: got %q, want CAP-LP", e.Result.NodeID)
	}
	if e.Key() != "CAP-LP:PFBS" {
		t.Errorf("Key: got %q, want CAP-LP:PFBS", e.Key())
	}
}

func TestGet_Missing(t *testing.T) {
	st := New(5 * time.Minute)
	_, ok := st.Get("unknown:unknown")
	if ok {
		t.Fatal("Get on empty store: expected false, got true")
	}
}

func TestPut_Overwrites(t *testing.T) {
	st := New(5 * time.Minute)
	r1 := ceim.Result{NodeID: "CAP-LP", ContaminantID: "PFBS", Kn: 10}
	r2 := ceim.Result{NodeID: "CAP-LP", ContaminantID: "PFBS", Kn: 20}

	st.Put(r1)
	st.Put(r2)

	e, ok := st.Get("CAP-LP:PFBS")
	if !ok {
		t.Fatal("Get: expected entry after two Puts")
	}
	if e.Result.Kn != 20 {
		t.Errorf("Kn: got %v, want 20", e.Result.Kn)
	}
}

func TestList_ExcludesStale(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	// Put two entries at different times.
	st.now = fixedClock(base.Add(-10 * time.Minute)) // stale
	st.Put(result("GILA-KELVIN", "Ecoli"))

	st.now = fixedClock(base) // live
	st.Put(result("CAP-LP", "PFBS"))

	// List uses current time = base.
	st.now = fixedClock(base)
	entries := st.List()

	if len(entries) != 1 {
		t.Fatalf("List: got %d entries, want 1", len(entries))
	}
	if entries[0].Result.NodeID != "CAP-LP" {
		t.Errorf("List[0].NodeID: got %q, want CAP-LP", entries[0].Result.NodeID)
	}
}

func TestCount_IncludesStale(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	st.now = fixedClock(base.Add(-10 * time.Minute))
	st.Put(result("GILA-KELVIN", "Ecoli"))

	st.now = fixedClock(base)
	st.Put(result("CAP-LP", "PFBS"))

	// Count includes both; stale not yet evicted.
	if n := st.Count(); n != 2 {
		t.Errorf("Count: got %d, want 2", n)
	}
}

func TestEvict_RemovesStale(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	st.now = fixedClock(base.Add(-10 * time.Minute))
	st.Put(result("GILA-KELVIN", "Ecoli"))
	st.Put(result("GILA-ESTRELLA", "TotalPhosphorus"))

	st.now = fixedClock(base)
	st.Put(result("CAP-LP", "PFBS"))

	removed := st.Evict(base)
	if removed != 2 {
		t.Errorf("Evict: removed %d, want 2", removed)
	}
	if st.Count() != 1 {
		t.Errorf("Count after evict: got %d, want 1", st.Count())
	}
}

func TestEvict_NoOp_AllLive(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	st.now = fixedClock(base)
	st.Put(result("CAP-LP", "PFBS"))

	removed := st.Evict(base)
	if removed != 0 {
		t.Errorf("Evict on live entry: removed %d, want 0", removed)
	}
}

func TestMultiplePairs(t *testing.T) {
	st := New(5 * time.Minute)
	pairs := [][2]string{
		{"CAP-LP", "PFBS"},
		{"GILA-ESTRELLA", "TotalPhosphorus"},
		{"CRB-SALINITY", "SalinityTDS"},
	}
	for _, p := range pairs {
		st.Put(result(p[0], p[1]))
	}

	entries := st.List()
	if len(entries) != 3 {
		t.Errorf("List: got %d entries, want 3", len(entries))
	}
}

func TestConcurrentPuts(t *testing.T) {
	st := New(5 * time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Put(result("CAP-LP", "PFBS"))
		}()
	}
	wg.Wait()

	// Should have exactly one entry (all same key).
	if st.Count() != 1 {
		t.Errorf("Count after concurrent puts: got %d, want 1", st.Count())
	}
}

func TestConcurrentMixedOps(t *testing.T) {
	st := New(5 * time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			st.Put(result("CAP-LP", "PFBS"))
		}()
		go func() {
			defer wg.Done()
			st.List()
		}()
	}
	wg.Wait()
}
