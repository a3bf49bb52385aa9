package alerts

import (
	"testing"
	"time"

	"github.com/phxeconet/ceim/pkg/ceim"
	"github.com/phxeconet/ceim/server/internal/config"
)

func newTestEngine(rules ...config.AlertRule) *Engine {
	return New(config.AlertsConfig{Rules: rules})
}

func highKn() ceim.Result {
	return ceim.Result{NodeID: "CAP-LP", ContaminantID: "PFBS", Kn: 1e7, MassLoad: 72000}
}

func lowKn() ceim.Result {
	return ceim.Result{NodeID: "CAP-LP", ContaminantID: "PFBS", Kn: 10, MassLoad: 100}
}

func TestEvaluate_Fires(t *testing.T) {
	e := newTestEngine(config.AlertRule{
		Name: "high-impact", Condition: "kn > 1e6", Severity: "critical",
	})

	e.Evaluate(highKn())

	active := e.Active()
	if len(active) != 1 {
		t.Fatalf("Active: got %d alerts, want 1", len(active))
	}
	a := active[0]
	if a.State != "firing" {
		t.Errorf("State: got %q, want firing", a.State)
	}
	if a.Severity != "critical" {
		t.Errorf("Severity: got %q, want critical", a.Severity)
	}
	if a.NodeID != "CAP-LP" || a.ContaminantID != "PFBS" {
		t.Errorf("pair: got %s:%s", a.NodeID, a.ContaminantID)
	}
	if a.Value != 1e7 {
		t.Errorf("Value: got %v, want 1e7", a.Value)
	}
}

func TestEvaluate_NoFire(t *testing.T) {
	e := newTestEngine(config.AlertRule{Name: "high-impact", Condition: "kn > 1e6"})

	e.Evaluate(lowKn())

	if n := len(e.Active()); n != 0 {
		t.Errorf("Active: got %d alerts, want 0", n)
	}
}

func TestEvaluate_Cooldown(t *testing.T) {
	e := newTestEngine(config.AlertRule{
		Name: "high-impact", Condition: "kn > 1e6", Cooldown: time.Hour,
	})

	e.Evaluate(highKn())
	e.Evaluate(highKn()) // within cooldown, must not re-fire

	if n := len(e.Active()); n != 1 {
		t.Errorf("Active after re-fire within cooldown: got %d alerts, want 1", n)
	}
}

func TestEvaluate_Resolves(t *testing.T) {
	e := newTestEngine(config.AlertRule{Name: "high-impact", Condition: "kn > 1e6"})

	e.Evaluate(highKn())
	e.Evaluate(lowKn())

	active := e.Active()
	if len(active) != 1 {
		t.Fatalf("Active: got %d alerts, want 1 (recently resolved)", len(active))
	}
	a := active[0]
	if a.State != "resolved" {
		t.Errorf("State: got %q, want resolved", a.State)
	}
	if a.ResolvedAt == nil {
		t.Error("ResolvedAt: got nil, want set")
	}
}

func TestEvaluate_DefaultSeverity(t *testing.T) {
	e := newTestEngine(config.AlertRule{Name: "high-impact", Condition: "kn > 1e6"})

	e.Evaluate(highKn())

	active := e.Active()
	if len(active) != 1 {
		t.Fatalf("Active: got %d alerts, want 1", len(active))
	}
	if active[0].Severity != "warning" {
		t.Errorf("Severity: got %q, want warning default", active[0].Severity)
	}
}

func TestEvaluate_NoRules(t *testing.T) {
	e := New(config.AlertsConfig{})
	e.Evaluate(highKn())

	if n := len(e.Active()); n != 0 {
		t.Errorf("Active with no rules: got %d alerts, want 0", n)
	}
}

func TestEvaluate_PerPairKeys(t *testing.T) {
	e := newTestEngine(config.AlertRule{Name: "high-impact", Condition: "kn > 1e6"})

	e.Evaluate(ceim.Result{NodeID: "CAP-LP", ContaminantID: "PFBS", Kn: 1e7})
	e.Evaluate(ceim.Result{NodeID: "GILA-KELVIN", ContaminantID: "Ecoli", Kn: 1e7})

	if n := len(e.Active()); n != 2 {
		t.Errorf("Active: got %d alerts, want 2 (one per pair)", n)
	}
}

func TestSeverityLabels(t *testing.T) {
	if got := severityLabel("critical"); got != "[CRITICAL]" {
		t.Errorf("severityLabel(critical): got %q", got)
	}
	if got := severityLabel("other"); got != "[INFO]" {
		t.Errorf("severityLabel(other): got %q", got)
	}
	if got := severityColor("warning"); got != "FFAB40" {
		t.Errorf("severityColor(warning): got %q", got)
	}
}
