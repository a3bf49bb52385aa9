package cpvm

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders a one-node eco-impact evaluation as a printable report.
func WritePDF(w io.Writer, cfg NodeConfig, cout float64, res EcoImpactResult) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "CPVM Eco-Impact Evaluation")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Node: %s (%s)", cfg.Meta.NodeID, cfg.Meta.AssetType))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Waterbody: %s, %s", cfg.Meta.Waterbody, cfg.Meta.Region))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Profile: %s", cfg.Meta.Profile))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.Cell(0, 6, fmt.Sprintf("Baseline Cin: %g %s", cfg.Meta.CinBaseline, cfg.Meta.CinUnit))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Proposed Cout: %g %s", cout, cfg.Meta.CinUnit))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Discharge: %g %s over %g s", cfg.Meta.QAvg, cfg.Meta.QUnit, cfg.Meta.HorizonS))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Safe threshold: %g (Cref %g)", cfg.Safety.SafeThreshold, cfg.Safety.Cref))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Mass avoided: %e", res.MassAvoided))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Eco-impact score: %.2f", res.EcoImpactScore))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Karma gain: %e", res.KarmaGain))
	pdf.Ln(5)

	if cfg.Meta.Notes != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.Ln(3)
		pdf.Cell(0, 5, cfg.Meta.Notes)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("cpvm: write pdf: %w", err)
	}
	return nil
}
