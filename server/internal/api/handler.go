package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/phxeconet/ceim/pkg/catalog"
	"github.com/phxeconet/ceim/server/internal/alerts"
	"github.com/phxeconet/ceim/server/internal/store"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads impact results from the live store and returns JSON responses.
type Handler struct {
	store   *store.Store
	history *store.History // nil when persistence is disabled
	engine  *alerts.Engine
	mux     *http.ServeMux
}

// New creates a Handler wired to the given stores and registers all routes.
// history and engine may be nil; the corresponding endpoints then return
// empty payloads.
func New(st *store.Store, hist *store.History, engine *alerts.Engine) http.Handler {
	h := &Handler{store: st, history: hist, engine: engine, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/results", h.listResults)
	h.mux.HandleFunc("/api/v1/results/", h.getResult) // subtree, extracts {key}
	h.mux.HandleFunc("/api/v1/report", h.report)
	h.mux.HandleFunc("/api/v1/history", h.historyQuery)
	h.mux.HandleFunc("/api/v1/alerts", h.alerts)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := HealthResponse{PairCount: h.store.Count()}
	if h.engine != nil {
		resp.AlertCount = len(h.engine.Active())
	}
	if h.history != nil {
		if n, err := h.history.Count(); err == nil {
			resp.HistoryRows = n
		}
	}

	switch {
	case resp.PairCount == 0:
		resp.State = "idle"
	case resp.AlertCount > 0:
		resp.State = "alerting"
	default:
		resp.State = "ok"
	}
	jsonResp(w, http.StatusOK, resp)
}

// listResults returns GET /api/v1/results, all live results.
func (h *Handler) listResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries := h.store.List()
	out := make([]ResultResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toResultResponse(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NodeID != out[j].NodeID {
			return out[i].NodeID < out[j].NodeID
		}
		return out[i].ContaminantID < out[j].ContaminantID
	})
	jsonResp(w, http.StatusOK, out)
}

// getResult returns GET /api/v1/results/{key}, one result by node:contaminant.
func (h *Handler) getResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/api/v1/results/")
	if key == "" {
		h.listResults(w, r)
		return
	}

	e, ok := h.store.Get(key)
	if !ok {
		jsonErr(w, http.StatusNotFound, "result not found")
		return
	}
	// Exclude stale entries, treat them as not found.
	if time.Since(e.UpdatedAt) > h.store.TTL() {
		jsonErr(w, http.StatusNotFound, "result not found")
		return
	}

	jsonResp(w, http.StatusOK, toResultResponse(e))
}

// report returns GET /api/v1/report, the karma report built from live results
// in canonical catalog order.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, BuildReport(h.store))
}

// historyQuery returns GET /api/v1/history?node={id}&since={RFC3339}.
func (h *Handler) historyQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.history == nil {
		jsonResp(w, http.StatusOK, []HistoryEntry{})
		return
	}

	nodeID := r.URL.Query().Get("node")
	since := time.Now().Add(-24 * time.Hour)
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			jsonErr(w, http.StatusBadRequest, "since must be RFC3339")
			return
		}
		since = t
	}

	recs, err := h.history.Query(nodeID, since)
	if err != nil {
		jsonErr(w, http.StatusInternalServerError, "history query failed")
		return
	}

	out := make([]HistoryEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, HistoryEntry{
			NodeID:        rec.NodeID,
			ContaminantID: rec.ContaminantID,
			Kn:            rec.Kn,
			MassLoad:      rec.MassLoad,
			ComputedAt:    rec.ComputedAt.UTC().Format(time.RFC3339),
		})
	}
	jsonResp(w, http.StatusOK, out)
}

// alerts returns GET /api/v1/alerts, firing plus recently resolved alerts.
func (h *Handler) alerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.engine == nil {
		jsonResp(w, http.StatusOK, []struct{}{})
		return
	}
	jsonResp(w, http.StatusOK, h.engine.Active())
}

// --- helpers ----------------------------------------------------------------

// BuildReport assembles the karma report from live store entries, walking the
// canonical catalog order and skipping pairs with no live result. It is also
// used by the WebSocket hub for periodic broadcasts.
func BuildReport(st *store.Store) ReportResponse {
	live := make(map[string]*store.Entry)
	for _, e := range st.List() {
		live[e.Key()] = e
	}

	entries := make([]ReportEntry, 0, len(live))
	for _, n := range catalog.Nodes() {
		for _, b := range catalog.Contaminants() {
			e, ok := live[n.ID+":"+b.ID]
			if !ok {
				continue
			}
			entries = append(entries, ReportEntry{
				NodeID:        n.ID,
				Waterbody:     n.Waterbody,
				ContaminantID: b.ID,
				Kn:            e.Result.Kn,
				MassLoad:      e.Result.MassLoad,
				Unit:          b.Unit,
				UnitMass:      b.Unit + "*s/m3",
				Weight:        b.Weight,
				RefConc:       b.RefConc,
			})
		}
	}

	return ReportResponse{
		Entries:     entries,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

// toResultResponse maps a store.Entry to its JSON representation.
func toResultResponse(e *store.Entry) ResultResponse {
	return ResultResponse{
		NodeID:        e.Result.NodeID,
		ContaminantID: e.Result.ContaminantID,
		Kn:            e.Result.Kn,
		MassLoad:      e.Result.MassLoad,
		UpdatedAt:     e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
