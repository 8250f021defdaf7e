package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"codelab/internal/catalog"
	"codelab/pkg/types"
)

// newTemplatesCommand lists the built-in session templates, mainly useful to
// see what a fresh deployment ships with.
func newTemplatesCommand() *cobra.Command {
	var sessionType string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the built-in session templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.New()
			templates := cat.List(types.TemplateFilter{Type: types.SessionType(sessionType)})

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tLANGUAGE\tDIFFICULTY\tDURATION")
			for _, t := range templates {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					t.Name, t.Type, t.DefaultLanguage, t.Difficulty, t.EstimatedDuration)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&sessionType, "type", "t", "", "filter by session type")
	return cmd
}
