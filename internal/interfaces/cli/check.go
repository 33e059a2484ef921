package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/protoscribe/internal/application/compliance"
	"github.com/turtacn/protoscribe/internal/application/document"
	"github.com/turtacn/protoscribe/internal/domain/guideline"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// checkReport renders an offline compliance report.
type checkReport struct {
	file   string
	report *ptypes.ComplianceReport
}

func (r checkReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.report)
}

func (r checkReport) TableHeaders() []string {
	return []string{"GUIDELINE", "SCORE", "PASSED", "FAILED", "WARNINGS"}
}

func (r checkReport) TableRows() [][]string {
	row := func(g ptypes.GuidelineReport) []string {
		passed := 0
		for _, item := range g.Items {
			if item.Status == ptypes.CheckPass {
				passed++
			}
		}
		return []string{
			string(g.Guideline),
			fmt.Sprintf("%.1f%%", g.Score),
			strconv.Itoa(passed),
			strconv.Itoa(len(g.FailedItems)),
			strconv.Itoa(len(g.Warnings)),
		}
	}
	return [][]string{row(r.report.ConsortDetails), row(r.report.SpiritDetails)}
}

func (r checkReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %.1f%% compliant (%d/%d items)\n",
		r.file, r.report.Score, r.report.PassedItems, r.report.TotalItems)
	fmt.Fprintf(&sb, "  CONSORT: %.1f%%  SPIRIT: %.1f%%\n",
		r.report.ConsortScore, r.report.SpiritScore)
	for _, item := range r.report.FailedItems {
		fmt.Fprintf(&sb, "  MISSING [%s %s] %s\n", item.Guideline, item.ItemID, item.Description)
	}
	for _, item := range r.report.Warnings {
		fmt.Fprintf(&sb, "  WARNING [%s %s] %s\n", item.Guideline, item.ItemID, item.Issue)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func newCheckCmd(opts *RootOptions) *cobra.Command {
	var (
		guidelinesDir string
		failUnder     float64
	)
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Check a protocol file against CONSORT and SPIRIT without a server",
		Long: "Check a protocol file against the CONSORT and SPIRIT checklists locally.\n" +
			"The document is processed in-memory and nothing is uploaded.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			log := logging.NewNopLogger()
			processor := document.NewProcessor(log)
			doc, err := processor.Process(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return err
			}

			registry := guideline.NewRegistry(guidelinesDir, log)
			checker := compliance.NewChecker(registry, log)

			report, err := checker.Check(cmd.Context(), doc.Content, doc.Sections)
			if err != nil {
				return err
			}

			if err := printResult(cmd, opts, checkReport{file: filepath.Base(args[0]), report: report}); err != nil {
				return err
			}

			if failUnder > 0 && report.Score < failUnder {
				color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(),
					"compliance %.1f%% is below the required %.1f%%\n", report.Score, failUnder)
				return fmt.Errorf("compliance below threshold")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&guidelinesDir, "guidelines-dir", "", "directory with custom guideline checklists (defaults to built-in)")
	cmd.Flags().Float64Var(&failUnder, "fail-under", 0, "exit non-zero when the overall score is below this percentage")
	return cmd
}
