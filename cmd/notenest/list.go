package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/viant/notenest/note"
)

func newListCmd(a *app) *cobra.Command {
	var (
		filter note.Filter
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := a.notes.Query(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("list notes: %w", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), notes)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, n := range notes {
				title := ""
				if n.Title != nil {
					title = *n.Title
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.ID, n.UpdatedAt.Format(note.TimeLayout), n.URL, title)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringArrayVarP(&filter.Tags, "tag", "t", nil, "only notes carrying this tag (repeatable, all must match)")
	cmd.Flags().StringVarP(&filter.Text, "query", "q", "", "only notes whose title or summary contains this text")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "maximum number of notes (0 for all)")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "number of notes to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print one note as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, ok, err := a.notes.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("note %s not found", args[0])
			}
			return writeJSON(cmd.OutOrStdout(), n)
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
