// Package cli implements the protoscribe command line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/protoscribe/pkg/client"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ServerAddr   string
	Timeout      time.Duration
	OutputFormat string
	Verbose      bool
	NoColor      bool
}

// NewRootCommand creates the root cobra command with all global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "protoscribe",
		Short: "ProtoScribe CLI, clinical trial protocol compliance tooling",
		Long: "ProtoScribe checks clinical trial protocols against the CONSORT and SPIRIT\n" +
			"reporting guidelines, with optional AI-assisted improvement suggestions.\n" +
			"Most commands talk to a running ProtoScribe server; 'check' runs offline.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.NoColor {
				color.NoColor = true
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ServerAddr, "server", "http://localhost:8080", "ProtoScribe API server address")
	pf.DurationVar(&opts.Timeout, "timeout", 2*time.Minute, "request timeout")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newUploadCmd(opts),
		newListCmd(opts),
		newGetCmd(opts),
		newDeleteCmd(opts),
		newSampleCmd(opts),
		newAnalyzeCmd(opts),
		newScoreCmd(opts),
		newGuidelinesCmd(opts),
		newCheckCmd(opts),
	)

	return cmd
}

// apiClient builds an SDK client from the global flags.
func (o *RootOptions) apiClient() (*client.Client, error) {
	return client.NewClient(o.ServerAddr,
		client.WithUserAgent(fmt.Sprintf("protoscribe-cli/%s", Version)),
	)
}

// Execute runs the CLI with the given arguments.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

// printResult renders data in the format selected by --output.
func printResult(cmd *cobra.Command, opts *RootOptions, data interface{}) error {
	switch strings.ToLower(opts.OutputFormat) {
	case "json":
		return printJSON(cmd.OutOrStdout(), data)
	case "table":
		return printTable(cmd.OutOrStdout(), data)
	default:
		return printText(cmd.OutOrStdout(), data)
	}
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printText(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(w, v)
	case fmt.Stringer:
		fmt.Fprintln(w, v.String())
	default:
		return printJSON(w, data)
	}
	return nil
}

// tableProvider lets result types render as aligned tables.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

func printTable(w io.Writer, data interface{}) error {
	tp, ok := data.(tableProvider)
	if !ok {
		return printText(w, data)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(tp.TableHeaders())
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(tp.TableRows())
	table.Render()
	return nil
}

func printError(w io.Writer, err error) {
	if err == nil {
		return
	}
	color.New(color.FgRed).Fprintf(w, "Error: %s\n", err.Error())
}

func printSuccess(w io.Writer, format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(w, format+"\n", args...)
}
