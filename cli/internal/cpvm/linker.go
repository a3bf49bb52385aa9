package cpvm

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// AssetType is the node taxonomy of the CPVM–EcoNet shard.
type AssetType string

const (
	AssetReservoir        AssetType = "Reservoir"
	AssetPlant            AssetType = "Plant"
	AssetRiverReach       AssetType = "RiverReach"
	AssetBasin            AssetType = "Basin"
	AssetWatershedCluster AssetType = "WatershedCluster"
)

// ParseAssetType maps a shard field to an AssetType. Unknown values pass
// through trimmed, so new taxonomy entries do not break older binaries.
func ParseAssetType(s string) AssetType {
	return AssetType(strings.TrimSpace(s))
}

// Known reports whether t is part of the established taxonomy.
func (t AssetType) Known() bool {
	switch t {
	case AssetReservoir, AssetPlant, AssetRiverReach, AssetBasin, AssetWatershedCluster:
		return true
	}
	return false
}

// NodeMeta is one CPVM node's metadata and baseline environmental state,
// parsed from a twelve-plus-field shard row.
type NodeMeta struct {
	NodeID    string
	AssetType AssetType
	Waterbody string
	Region    string

	// Profile names the CPVM profile, e.g. "PFAS_PFBS_LP_v1".
	Profile string

	// CinBaseline is the baseline inlet concentration in CinUnit.
	CinBaseline float64
	CinUnit     string

	// QAvg is the average discharge in QUnit (normally m3/s).
	QAvg  float64
	QUnit string

	// HorizonS is the eco-impact integration horizon in seconds.
	HorizonS float64

	// EcoImpactScore is the CEIM-style score in [0, 1].
	EcoImpactScore float64

	// KarmaPerUnit converts canonical impact into karma.
	KarmaPerUnit float64

	Notes string
}

// SafetyConfig is the per-node viability/safety weighting.
type SafetyConfig struct {
	// SafeThreshold is the safe concentration ceiling C_safe.
	SafeThreshold float64

	// Cref is the reference concentration used for normalization.
	Cref float64

	// LambdaCLF weights Lyapunov-type viability violations.
	LambdaCLF float64

	// MuCBF weights barrier-type safety violations.
	MuCBF float64
}

// NodeConfig is a fully bound node ready for evaluation.
type NodeConfig struct {
	Meta   NodeMeta
	Safety SafetyConfig
}

// EcoImpactResult is the single-window evaluation output for one node.
type EcoImpactResult struct {
	// MassAvoided is (Cin - Cout) * Q * horizon, clamped at zero.
	MassAvoided float64

	// EcoImpactScore is the node's score clamped into [0, 1].
	EcoImpactScore float64

	// KarmaGain is EcoImpactScore * MassAvoided * KarmaPerUnit.
	KarmaGain float64
}

// LoadNodeMeta parses a CPVM–EcoNet shard into node metadata.
//
// The header line is discarded. Every data row must carry at least twelve
// fields; a shorter row is a parse error, not a skip. Trailing fields beyond
// the twelfth are joined back into the notes column.
func LoadNodeMeta(path string) ([]NodeMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cpvm: open shard: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("cpvm: read shard header: %w", err)
	}

	var nodes []NodeMeta
	line := 1 // header was line 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("cpvm: line %d: %w", line, err)
		}
		if len(rec) < 12 {
			return nil, fmt.Errorf("cpvm: line %d has insufficient fields: %d", line, len(rec))
		}

		meta, err := parseNodeMeta(rec)
		if err != nil {
			return nil, fmt.Errorf("cpvm: line %d: %w", line, err)
		}
		nodes = append(nodes, meta)
	}

	return nodes, nil
}

func parseNodeMeta(rec []string) (NodeMeta, error) {
	meta := NodeMeta{
		NodeID:    strings.TrimSpace(rec[0]),
		AssetType: ParseAssetType(rec[1]),
		Waterbody: rec[2],
		Region:    rec[3],
		Profile:   rec[4],
		CinUnit:   strings.TrimSpace(rec[6]),
		QUnit:     strings.TrimSpace(rec[8]),
	}

	var err error
	if meta.CinBaseline, err = strconv.ParseFloat(rec[5], 64); err != nil {
		return meta, fmt.Errorf("cin_baseline: %w", err)
	}
	if meta.QAvg, err = strconv.ParseFloat(rec[7], 64); err != nil {
		return meta, fmt.Errorf("q_avg: %w", err)
	}
	if meta.HorizonS, err = strconv.ParseFloat(rec[9], 64); err != nil {
		return meta, fmt.Errorf("horizon_s: %w", err)
	}
	if meta.EcoImpactScore, err = strconv.ParseFloat(rec[10], 64); err != nil {
		return meta, fmt.Errorf("ecoimpactscore: %w", err)
	}
	if meta.KarmaPerUnit, err = strconv.ParseFloat(rec[11], 64); err != nil {
		return meta, fmt.Errorf("karma_per_unit: %w", err)
	}

	if len(rec) > 12 {
		meta.Notes = strings.Join(rec[12:], ",")
	}
	return meta, nil
}

// DeriveSafetyConfig builds a node's safety configuration from global
// defaults. The safe threshold is the lower of the node baseline and the
// supplied reference; governance layers may override the result wholesale.
func DeriveSafetyConfig(meta NodeMeta, crefDefault, lambdaCLF, muCBF float64) SafetyConfig {
	threshold := meta.CinBaseline
	if crefDefault < threshold {
		threshold = crefDefault
	}
	return SafetyConfig{
		SafeThreshold: threshold,
		Cref:          crefDefault,
		LambdaCLF:     lambdaCLF,
		MuCBF:         muCBF,
	}
}

// Bind pairs node metadata with a derived safety configuration.
func Bind(meta NodeMeta, crefDefault, lambdaCLF, muCBF float64) NodeConfig {
	return NodeConfig{
		Meta:   meta,
		Safety: DeriveSafetyConfig(meta, crefDefault, lambdaCLF, muCBF),
	}
}

// BuildConfigs loads a shard and binds every node in it.
func BuildConfigs(path string, crefDefault, lambdaCLF, muCBF float64) ([]NodeConfig, error) {
	metas, err := LoadNodeMeta(path)
	if err != nil {
		return nil, err
	}
	configs := make([]NodeConfig, 0, len(metas))
	for _, m := range metas {
		configs = append(configs, Bind(m, crefDefault, lambdaCLF, muCBF))
	}
	return configs, nil
}

// MassAvoided is the degenerate single-window load reduction
// (Cin - Cout) * Q * horizon. Negative excess clamps to zero: a node
// cannot earn karma by polluting.
func MassAvoided(cin, cout, q, horizon float64) float64 {
	dC := cin - cout
	if dC < 0 {
		dC = 0
	}
	return dC * q * horizon
}

// Evaluate computes the eco-impact of running cfg's node at the proposed
// outflow concentration cout over the configured horizon.
func Evaluate(cfg NodeConfig, cout float64) EcoImpactResult {
	mass := MassAvoided(cfg.Meta.CinBaseline, cout, cfg.Meta.QAvg, cfg.Meta.HorizonS)
	score := clamp01(cfg.Meta.EcoImpactScore)
	return EcoImpactResult{
		MassAvoided:    mass,
		EcoImpactScore: score,
		KarmaGain:      score * mass * cfg.Meta.KarmaPerUnit,
	}
}

// clamp01 restricts v to the range [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
