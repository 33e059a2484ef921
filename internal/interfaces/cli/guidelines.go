package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/protoscribe/pkg/client"
)

// checklistView renders a guideline checklist as text or a table.
type checklistView struct {
	checklist *client.Checklist
}

func (v checklistView) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.checklist)
}

func (v checklistView) TableHeaders() []string {
	return []string{"ITEM", "SECTION", "DESCRIPTION"}
}

func (v checklistView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.checklist.Items))
	for _, item := range v.checklist.Items {
		desc := item.Description
		if len(desc) > 72 {
			desc = desc[:69] + "..."
		}
		rows = append(rows, []string{item.ID, item.Section, desc})
	}
	return rows
}

func (v checklistView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s (%d items)\n", v.checklist.Name, v.checklist.Version, len(v.checklist.Items))
	for _, item := range v.checklist.Items {
		fmt.Fprintf(&sb, "  %-5s [%s] %s\n", item.ID, item.Section, item.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func newGuidelinesCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guidelines [consort|spirit]",
		Short: "Show the supported reporting guideline checklists",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.apiClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			if len(args) == 0 {
				list, err := api.Guidelines().List(ctx)
				if err != nil {
					return err
				}
				for _, g := range list.Guidelines {
					if err := printResult(cmd, opts, checklistView{checklist: &g}); err != nil {
						return err
					}
				}
				return nil
			}

			var checklist *client.Checklist
			switch strings.ToLower(args[0]) {
			case "consort":
				checklist, err = api.Guidelines().Consort(ctx)
			case "spirit":
				checklist, err = api.Guidelines().Spirit(ctx)
			default:
				return fmt.Errorf("unknown guideline %q (expected consort or spirit)", args[0])
			}
			if err != nil {
				return err
			}
			return printResult(cmd, opts, checklistView{checklist: checklist})
		},
	}
	return cmd
}
