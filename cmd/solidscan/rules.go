package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/solidscan/internal/analyzer"
)

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rules solidscan reports",
		Long: `List every rule ID with its principle and description.

Rule IDs can be passed to --disable or listed under rules.disabled in the
configuration file.`,
		Run: func(cmd *cobra.Command, args []string) {
			tbl := table.NewWriter()
			tbl.SetOutputMirror(cmd.OutOrStdout())
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Rule", "Principle", "Description"})
			rules := analyzer.Rules()
			for _, r := range rules {
				tbl.AppendRow(table.Row{r.ID, r.Principle, r.Description})
			}
			tbl.AppendFooter(table.Row{"", "", fmt.Sprintf("%d rules", len(rules))})
			tbl.Render()
		},
	}
}
