package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/phxeconet/ceim/cli/internal/report"
	"github.com/phxeconet/ceim/pkg/catalog"
	"github.com/phxeconet/ceim/pkg/qpu"
)

const usage = "Usage: ceim [-xlsx report.xlsx] <input_timeseries.csv> <output_karma.csv>"

func main() {
	xlsxPath := flag.String("xlsx", "", "also write an XLSX rendition of the report to this path")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	args := flag.Args()
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}
	inPath, outPath := args[0], args[1]

	series, skipped, err := qpu.LoadSeries(inPath)
	if err != nil {
		slog.Error("failed to load time-series shard", "path", inPath, "err", err)
		os.Exit(1)
	}
	if skipped > 0 {
		slog.Warn("skipped malformed rows in time-series shard", "path", inPath, "rows", skipped)
	}

	rows := report.Build(catalog.Nodes(), catalog.Contaminants(), series)

	out, err := os.Create(outPath)
	if err != nil {
		slog.Error("unable to open output file", "path", outPath, "err", err)
		os.Exit(1)
	}
	if err := report.WriteCSV(out, rows); err != nil {
		out.Close()
		slog.Error("failed to write karma report", "path", outPath, "err", err)
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		slog.Error("failed to close karma report", "path", outPath, "err", err)
		os.Exit(1)
	}

	if *xlsxPath != "" {
		xf, err := os.Create(*xlsxPath)
		if err != nil {
			slog.Error("unable to open xlsx output file", "path", *xlsxPath, "err", err)
			os.Exit(1)
		}
		if err := report.WriteXLSX(xf, rows); err != nil {
			xf.Close()
			slog.Error("failed to write xlsx report", "path", *xlsxPath, "err", err)
			os.Exit(1)
		}
		if err := xf.Close(); err != nil {
			slog.Error("failed to close xlsx report", "path", *xlsxPath, "err", err)
			os.Exit(1)
		}
	}

	slog.Info("karma report written", "pairs", len(rows), "path", outPath)
}
