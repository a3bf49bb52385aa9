package qpu

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/phxeconet/ceim/pkg/ceim"
)

// seriesFields is the minimum column count of a time-series row:
// node_id, contaminant, t, Cin, Cout, Q.
const seriesFields = 6

// Key builds the composite series-map key for a (node, contaminant) pair.
func Key(nodeID, contaminantID string) string {
	return nodeID + ":" + contaminantID
}

// LoadSeries reads a time-series shard and groups samples by
// node:contaminant key, preserving file order within each key.
//
// The header line is read and discarded. Rows with fewer than six fields
// (and rows the CSV reader cannot parse at all) are skipped; the skip count
// is returned so callers can report partial loads. A numeric field that
// fails to parse aborts the whole load, since every surviving row is
// deserialized eagerly.
//
// An unopenable file is an error. A zero-byte file yields an empty map and
// no error.
func LoadSeries(path string) (map[string][]ceim.Sample, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("qpu: open series shard: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // row shape is validated per row below

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string][]ceim.Sample{}, 0, nil
		}
		return nil, 0, fmt.Errorf("qpu: read series header: %w", err)
	}

	byKey := make(map[string][]ceim.Sample)
	skipped := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed row (e.g. stray quote) is recoverable, like a
			// short row. The reader resumes on the next line.
			skipped++
			continue
		}
		if len(rec) < seriesFields {
			skipped++
			continue
		}

		s, err := parseSample(rec)
		if err != nil {
			return nil, skipped, err
		}
		k := Key(rec[0], rec[1])
		byKey[k] = append(byKey[k], s)
	}

	return byKey, skipped, nil
}

// parseSample deserializes the numeric tail of a six-field series row.
func parseSample(rec []string) (ceim.Sample, error) {
	var s ceim.Sample
	var err error

	if s.T, err = strconv.ParseFloat(rec[2], 64); err != nil {
		return s, fmt.Errorf("qpu: parse timestamp %q: %w", rec[2], err)
	}
	if s.Cin, err = strconv.ParseFloat(rec[3], 64); err != nil {
		return s, fmt.Errorf("qpu: parse inflow concentration %q: %w", rec[3], err)
	}
	if s.Cout, err = strconv.ParseFloat(rec[4], 64); err != nil {
		return s, fmt.Errorf("qpu: parse outflow concentration %q: %w", rec[4], err)
	}
	if s.Q, err = strconv.ParseFloat(rec[5], 64); err != nil {
		return s, fmt.Errorf("qpu: parse discharge %q: %w", rec[5], err)
	}
	return s, nil
}
