package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/phxeconet/ceim/cli/internal/cpvm"
	"github.com/phxeconet/ceim/pkg/qpu"
)

func main() {
	var (
		shardPath    = flag.String("shard", "", "CPVM-EcoNet node shard CSV (required)")
		nodeID       = flag.String("node", "", "node id to evaluate (required)")
		cout         = flag.Float64("cout", 0, "proposed outflow concentration")
		crefDefault  = flag.Float64("cref", 0, "default reference concentration (required, > 0)")
		lambdaCLF    = flag.Float64("lambda", 10, "viability violation weight")
		muCBF        = flag.Float64("mu", 100, "safety violation weight")
		outPath      = flag.String("o", "", "write the single-row CSV report here instead of stdout")
		pdfPath      = flag.String("pdf", "", "also write a PDF rendition to this path")
		stationShard = flag.String("station-shard", "", "optional station-metadata shard for enrichment")
		parameterID  = flag.String("parameter", "", "parameter name to look up in the station shard")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if *shardPath == "" || *nodeID == "" || *crefDefault <= 0 {
		fmt.Fprintln(os.Stderr, "Usage: cpvmlink -shard <nodes.csv> -node <id> -cref <conc> [-cout <conc>] [-o out.csv] [-pdf out.pdf]")
		os.Exit(1)
	}

	configs, err := cpvm.BuildConfigs(*shardPath, *crefDefault, *lambdaCLF, *muCBF)
	if err != nil {
		slog.Error("failed to load node shard", "path", *shardPath, "err", err)
		os.Exit(1)
	}

	var cfg cpvm.NodeConfig
	found := false
	for _, c := range configs {
		if c.Meta.NodeID == *nodeID {
			cfg, found = c, true
			break
		}
	}
	if !found {
		slog.Error("node not present in shard", "node", *nodeID, "path", *shardPath)
		os.Exit(1)
	}

	// Station-metadata enrichment: a live eco-impact score and field notes
	// replace the shard values when a matching row exists.
	if *stationShard != "" && *parameterID != "" {
		row, err := qpu.LoadStationRow(*stationShard, *nodeID, *parameterID)
		if err != nil {
			slog.Error("failed to load station shard", "path", *stationShard, "err", err)
			os.Exit(1)
		}
		if !row.IsZero() {
			cfg.Meta.EcoImpactScore = row.EcoImpactScore
			if row.Notes != "" {
				cfg.Meta.Notes = row.Notes
			}
			slog.Info("applied station metadata", "station", row.StationID,
				"parameter", row.Parameter, "score", row.EcoImpactScore)
		}
	}

	res := cpvm.Evaluate(cfg, *cout)

	out := os.Stdout
	var outFile *os.File
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			slog.Error("unable to open output file", "path", *outPath, "err", err)
			os.Exit(1)
		}
		outFile = f
		out = f
	}

	fmt.Fprintln(out, "node_id,asset_type,waterbody,region,profile,cout,mass_avoided,ecoimpactscore,karma_gain,safe_threshold,notes")
	fmt.Fprintf(out, "%s,%s,%s,%s,%s,%e,%e,%.2f,%e,%e,%q\n",
		cfg.Meta.NodeID, cfg.Meta.AssetType, cfg.Meta.Waterbody, cfg.Meta.Region,
		cfg.Meta.Profile, *cout, res.MassAvoided, res.EcoImpactScore, res.KarmaGain,
		cfg.Safety.SafeThreshold, cfg.Meta.Notes)

	if outFile != nil {
		if err := outFile.Close(); err != nil {
			slog.Error("failed to close output file", "path", *outPath, "err", err)
			os.Exit(1)
		}
	}

	if *pdfPath != "" {
		pf, err := os.Create(*pdfPath)
		if err != nil {
			slog.Error("unable to open pdf output file", "path", *pdfPath, "err", err)
			os.Exit(1)
		}
		if err := cpvm.WritePDF(pf, cfg, *cout, res); err != nil {
			pf.Close()
			slog.Error("failed to write pdf report", "path", *pdfPath, "err", err)
			os.Exit(1)
		}
		if err := pf.Close(); err != nil {
			slog.Error("failed to close pdf report", "path", *pdfPath, "err", err)
			os.Exit(1)
		}
	}

	slog.Info("evaluation complete", "node", cfg.Meta.NodeID,
		"mass_avoided", res.MassAvoided, "karma_gain", res.KarmaGain)
}
