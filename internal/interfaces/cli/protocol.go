package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/protoscribe/pkg/client"
)

// protocolSummary is the table-friendly view of a protocol listing.
type protocolSummary struct {
	list *client.ProtocolList
}

func (s protocolSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.list)
}

func (s protocolSummary) TableHeaders() []string {
	return []string{"ID", "TITLE", "FILENAME", "STATUS", "WORDS", "CREATED"}
}

func (s protocolSummary) TableRows() [][]string {
	rows := make([][]string, 0, len(s.list.Protocols))
	for _, p := range s.list.Protocols {
		title := p.Title
		if len(title) > 48 {
			title = title[:45] + "..."
		}
		rows = append(rows, []string{
			p.ID,
			title,
			p.Filename,
			p.Status,
			strconv.Itoa(p.WordCount),
			p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func (s protocolSummary) String() string {
	out := ""
	for _, p := range s.list.Protocols {
		out += fmt.Sprintf("%s  [%s]  %s (%d words)\n", p.ID, p.Status, p.Title, p.WordCount)
	}
	out += fmt.Sprintf("total: %d (page %d, page size %d)", s.list.Total, s.list.Page, s.list.PageSize)
	return out
}

func newUploadCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a protocol document (.txt or .docx) for processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			api, err := opts.apiClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			protocol, err := api.Protocols().Upload(ctx, filepath.Base(args[0]), data)
			if err != nil {
				return err
			}

			printSuccess(cmd.OutOrStdout(), "uploaded %s as %s (status: %s)", protocol.Filename, protocol.ID, protocol.Status)
			return printResult(cmd, opts, protocol)
		},
	}
}

func newListCmd(opts *RootOptions) *cobra.Command {
	var (
		page     int
		pageSize int
		status   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded protocols",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.apiClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			list, err := api.Protocols().List(ctx, page, pageSize, status)
			if err != nil {
				return err
			}
			return printResult(cmd, opts, protocolSummary{list: list})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "results per page")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (uploaded, processed, analyzed, failed)")
	return cmd
}

func newGetCmd(opts *RootOptions) *cobra.Command {
	var includeContent bool
	cmd := &cobra.Command{
		Use:   "get <protocol-id>",
		Short: "Show a protocol's metadata and sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.apiClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			protocol, err := api.Protocols().Get(ctx, args[0], includeContent)
			if err != nil {
				return err
			}
			return printResult(cmd, opts, protocol)
		},
	}
	cmd.Flags().BoolVar(&includeContent, "content", false, "include the full document text")
	return cmd
}

func newDeleteCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <protocol-id>",
		Short: "Delete a protocol and its analyses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.apiClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			if err := api.Protocols().Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "deleted protocol %s", args[0])
			return nil
		},
	}
}

func newSampleCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Create a built-in sample protocol on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.apiClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			protocol, err := api.Protocols().CreateSample(ctx)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "created sample protocol %s", protocol.ID)
			return printResult(cmd, opts, protocol)
		},
	}
}
