package report

import (
	"fmt"
	"io"

	"github.com/phxeconet/ceim/pkg/ceim"
	"github.com/phxeconet/ceim/pkg/qpu"
)

// Header is the fixed column list of the karma report.
const Header = "node_id,waterbody,contaminant,stationid,karma_Kn,mass_load,unit_mass,window_start,window_end,ecoimpactscore,notes"

// Fixed report window and enrichment placeholders. The reporting window is
// the full 2024 calendar year; the eco-impact score and notes are constants
// until station-metadata joins land in the report pipeline.
const (
	windowStart = "2024-01-01T00:00:00Z"
	windowEnd   = "2024-12-31T23:59:59Z"
	ecoScore    = "1.0"
	notes       = `"CEIM Phoenix annual Karma"`
)

// Row is one assembled (node, contaminant) report line.
type Row struct {
	NodeID      string
	Waterbody   string
	Contaminant string
	StationID   string // the node:contaminant series key
	Kn          float64
	MassLoad    float64
	UnitMass    string
}

// Build runs the impact engine for every (node, contaminant) pair that has
// series data, nodes outermost, both in the caller-provided (canonical)
// order. Pairs without data produce no row.
func Build(nodes []ceim.Node, benches []ceim.Benchmark, series map[string][]ceim.Sample) []Row {
	var rows []Row
	for _, n := range nodes {
		for _, b := range benches {
			key := qpu.Key(n.ID, b.ID)
			ts, ok := series[key]
			if !ok {
				continue
			}

			res := ceim.Compute(n, b, ts)
			rows = append(rows, Row{
				NodeID:      n.ID,
				Waterbody:   n.Waterbody,
				Contaminant: b.ID,
				StationID:   key,
				Kn:          res.Kn,
				MassLoad:    res.MassLoad,
				UnitMass:    b.Unit + "*s/m3",
			})
		}
	}
	return rows
}

// WriteCSV renders rows in the canonical shard format. Numeric fields use
// scientific notation with six digits after the decimal point; the output
// is deterministic, so identical inputs produce byte-identical reports.
func WriteCSV(w io.Writer, rows []Row) error {
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return fmt.Errorf("report: write header: %w", err)
	}
	for _, r := range rows {
		_, err := fmt.Fprintf(w, "%s,%s,%s,%s,%e,%e,%s,%s,%s,%s,%s\n",
			r.NodeID, r.Waterbody, r.Contaminant, r.StationID,
			r.Kn, r.MassLoad, r.UnitMass,
			windowStart, windowEnd, ecoScore, notes)
		if err != nil {
			return fmt.Errorf("report: write row %s: %w", r.StationID, err)
		}
	}
	return nil
}
