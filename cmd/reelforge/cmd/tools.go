package cmd

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"reelforge/internal/core"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List known tools and their availability",
	Long: `List every tool in the catalog with its cost, latency, provider and
whether its credential is present in the current environment.`,
	RunE: runToolsCmd,
}

var toolsAvailableOnly bool

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().BoolVar(&toolsAvailableOnly, "available", false, "show only tools usable right now")
}

func runToolsCmd(cmd *cobra.Command, _ []string) error {
	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	tools := append(reg.ListByType(core.ToolTypeImage), reg.ListByType(core.ToolTypeVideo)...)
	sort.Slice(tools, func(i, j int) bool {
		if tools[i].Type != tools[j].Type {
			return tools[i].Type < tools[j].Type
		}
		return tools[i].Name < tools[j].Name
	})

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tPROVIDER\tCOST\tLATENCY\tAVAILABLE\tTAGS")
	for _, t := range tools {
		available := reg.Available(t.Name)
		if toolsAvailableOnly && !available {
			continue
		}
		mark := "no"
		if available {
			mark = "yes"
		}
		typ := "image"
		if t.Type == core.ToolTypeVideo {
			typ = "video"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\t%ds\t%s\t%s\n",
			t.Name, typ, t.Provider, t.Cost, t.LatencySeconds, mark,
			strings.Join(t.CapabilityTags, ", "))
	}
	return w.Flush()
}
