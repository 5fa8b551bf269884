package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/notenest/codec"
)

func newEmbedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "embed ID VECTOR",
		Short: "Attach a vector to a note, replacing any previous one",
		Long: `VECTOR is either a JSON array ("[0.1,-0.2,3]") or comma separated
numbers ("0.1,-0.2,3"). Use -- before a vector that starts with a minus sign.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vec, err := parseVector(args[1])
			if err != nil {
				return err
			}
			if err := a.embeddings.Upsert(cmd.Context(), args[0], vec); err != nil {
				return fmt.Errorf("embed %s: %w", args[0], err)
			}
			return nil
		},
	}
}

func newEmbeddingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "embedding ID",
		Short: "Print the vector attached to a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vec, ok, err := a.embeddings.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no embedding for note %s", args[0])
			}
			text, err := codec.EncodeVector(vec)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		top    int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "search VECTOR",
		Short: "Rank notes by cosine similarity of their vectors to VECTOR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseVector(args[0])
			if err != nil {
				return err
			}
			matches, err := a.embeddings.Search(cmd.Context(), query, top)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), matches)
			}
			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.6f\n", m.NoteID, m.Score)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&top, "top", "k", 10, "number of matches (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

// parseVector accepts a JSON array or comma separated numbers.
func parseVector(text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "[") {
		return codec.ParseVector(text)
	}
	if text == "" {
		return nil, fmt.Errorf("vector is empty")
	}
	parts := strings.Split(text, ",")
	vec := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("vector[%d]: %w", i, err)
		}
		vec[i] = v
	}
	return vec, nil
}
