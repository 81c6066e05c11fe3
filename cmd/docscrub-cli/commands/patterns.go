package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/use-agent/docscrub/cleaner"
	"github.com/use-agent/docscrub/patterns"
)

type ruleView struct {
	Name  string   `yaml:"name"`
	Attrs []string `yaml:"attrs"`
	Expr  string   `yaml:"expr"`
}

func newPatternsCmd() *cobra.Command {
	var (
		asYAML bool
		passes bool
	)

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the boilerplate pattern catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if passes {
				for _, name := range cleaner.NewDocumentCleaner(cleaner.Options{}).PassNames() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			rules := patterns.Default().Rules()
			views := make([]ruleView, len(rules))
			for i, r := range rules {
				// Strip the case-insensitivity prefix added at compile time.
				views[i] = ruleView{Name: r.Name, Attrs: r.Attrs, Expr: strings.TrimPrefix(r.Re.String(), "(?i)")}
			}

			if asYAML {
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(views)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tATTRS\tEXPR")
			for _, v := range views {
				expr := v.Expr
				if len(expr) > 60 {
					expr = expr[:57] + "..."
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Name, strings.Join(v.Attrs, ","), expr)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the full catalog as YAML")
	cmd.Flags().BoolVar(&passes, "passes", false, "print the cleaning passes in execution order")
	return cmd
}
