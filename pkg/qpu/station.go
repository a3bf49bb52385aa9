package qpu

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// stationFields is the column count of a station-metadata row.
const stationFields = 12

// StationRow is one row of the Arizona water-quality station-metadata shard.
type StationRow struct {
	StationID       string
	Waterbody       string
	Region          string
	Latitude        float64
	Longitude       float64
	Parameter       string
	Unit            string
	Value           float64
	MeasurementDate string
	SourceProgram   string
	EcoImpactScore  float64 // normalized 0..1
	Notes           string
}

// IsZero reports whether the row is the no-match zero value.
func (r StationRow) IsZero() bool {
	return r == StationRow{}
}

// LoadStationRow scans a station-metadata shard and returns the first data
// row whose station id and parameter name match exactly.
//
// The file must open and contain at least a header line; either failure is
// an error. Rows with fewer than twelve fields are skipped. A matching row
// with an unparseable numeric field is an error, since the match is
// deserialized eagerly. No match yields the zero StationRow and no error.
func LoadStationRow(path, stationID, parameterID string) (StationRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return StationRow{}, fmt.Errorf("qpu: open station shard: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return StationRow{}, fmt.Errorf("qpu: empty station shard %q", path)
		}
		return StationRow{}, fmt.Errorf("qpu: read station header: %w", err)
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue // malformed row, recoverable
		}
		if len(rec) < stationFields {
			continue
		}
		if rec[0] != stationID || rec[5] != parameterID {
			continue
		}
		return parseStationRow(rec)
	}

	return StationRow{}, nil
}

// parseStationRow deserializes a matched twelve-field row.
func parseStationRow(rec []string) (StationRow, error) {
	row := StationRow{
		StationID:       rec[0],
		Waterbody:       rec[1],
		Region:          rec[2],
		Parameter:       rec[5],
		Unit:            rec[6],
		MeasurementDate: rec[8],
		SourceProgram:   rec[9],
		Notes:           rec[11],
	}

	var err error
	if row.Latitude, err = strconv.ParseFloat(rec[3], 64); err != nil {
		return StationRow{}, fmt.Errorf("qpu: parse latitude %q: %w", rec[3], err)
	}
	if row.Longitude, err = strconv.ParseFloat(rec[4], 64); err != nil {
		return StationRow{}, fmt.Errorf("qpu: parse longitude %q: %w", rec[4], err)
	}
	if row.Value, err = strconv.ParseFloat(rec[7], 64); err != nil {
		return StationRow{}, fmt.Errorf("qpu: parse value %q: %w", rec[7], err)
	}
	if row.EcoImpactScore, err = strconv.ParseFloat(rec[10], 64); err != nil {
		return StationRow{}, fmt.Errorf("qpu: parse ecoimpactscore %q: %w", rec[10], err)
	}
	return row, nil
}
