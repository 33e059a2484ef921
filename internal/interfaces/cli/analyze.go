package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *RootOptions) *cobra.Command {
	var analysisType string
	cmd := &cobra.Command{
		Use:   "analyze <protocol-id>",
		Short: "Run an analysis against an uploaded protocol",
		Long: "Run an analysis against an uploaded protocol.\n\n" +
			"Analysis types:\n" +
			"  compliance     rule-based CONSORT/SPIRIT checklist evaluation (default)\n" +
			"  comprehensive  compliance plus AI suggestions, clarity and consistency review\n" +
			"  suggestions    AI-drafted text for missing checklist items\n" +
			"  clarity        AI review for ambiguous or vague language\n" +
			"  consistency    AI review for cross-section contradictions\n" +
			"  summary        AI executive summary of the compliance posture",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.apiClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			id := args[0]
			var result interface{}
			switch strings.ToLower(analysisType) {
			case "", "compliance":
				result, err = api.Analysis().Compliance(ctx, id)
			case "comprehensive":
				result, err = api.Analysis().Comprehensive(ctx, id)
			case "suggestions":
				result, err = api.Analysis().Suggestions(ctx, id)
			case "clarity":
				result, err = api.Analysis().ClarityCheck(ctx, id)
			case "consistency":
				result, err = api.Analysis().ConsistencyCheck(ctx, id)
			case "summary":
				result, err = api.Analysis().ExecutiveSummary(ctx, id)
			default:
				return fmt.Errorf("unknown analysis type %q", analysisType)
			}
			if err != nil {
				return err
			}
			return printResult(cmd, opts, result)
		},
	}
	cmd.Flags().StringVarP(&analysisType, "type", "t", "compliance", "analysis type (compliance, comprehensive, suggestions, clarity, consistency, summary)")
	return cmd
}

func newScoreCmd(opts *RootOptions) *cobra.Command {
	var history bool
	cmd := &cobra.Command{
		Use:   "score <protocol-id>",
		Short: "Show the latest compliance score for a protocol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.apiClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			if history {
				result, err := api.Analysis().History(ctx, args[0])
				if err != nil {
					return err
				}
				return printResult(cmd, opts, result)
			}

			score, err := api.Analysis().Score(ctx, args[0])
			if err != nil {
				return err
			}
			if strings.ToLower(opts.OutputFormat) == "text" {
				fmt.Fprintf(cmd.OutOrStdout(),
					"overall: %.1f%%  consort: %.1f%%  spirit: %.1f%%  (%d/%d items, %d runs)\n",
					score.OverallScore, score.ConsortScore, score.SpiritScore,
					score.PassedItems, score.TotalItems, score.AnalysisCount)
				return nil
			}
			return printResult(cmd, opts, score)
		},
	}
	cmd.Flags().BoolVar(&history, "history", false, "show past analysis runs instead of the latest score")
	return cmd
}
