package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/viant/notenest/note"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		id, url, title, summary string
		tags                    []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a URL as a new note and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				id = uuid.NewString()
			}
			u := note.New(id, url).WithTags(note.NormalizeTags(tags)...)
			if cmd.Flags().Changed("title") {
				u = u.WithTitle(title)
			}
			if cmd.Flags().Changed("summary") {
				u = u.WithSummary(summary)
			}
			if err := a.notes.Upsert(cmd.Context(), u); err != nil {
				return fmt.Errorf("add note: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "note id (default: a new UUID)")
	cmd.Flags().StringVar(&url, "url", "", "URL to save")
	cmd.Flags().StringVar(&title, "title", "", "note title")
	cmd.Flags().StringVar(&summary, "summary", "", "note summary")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "tag to attach (repeatable)")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		url, title, summary string
		tags                []string
	)
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of an existing note, keeping the rest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, ok, err := a.notes.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("note %s not found", args[0])
			}
			u := note.From(existing)
			flags := cmd.Flags()
			if flags.Changed("url") {
				u.URL = url
			}
			if flags.Changed("title") {
				u = u.WithTitle(title)
			}
			if flags.Changed("summary") {
				u = u.WithSummary(summary)
			}
			if flags.Changed("tag") {
				u = u.WithTags(note.NormalizeTags(tags)...)
			}
			u.SyncStatus = note.Pending
			u.Version = existing.Version + 1
			if err := a.notes.Upsert(cmd.Context(), u); err != nil {
				return fmt.Errorf("update note: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "new URL")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&summary, "summary", "", "new summary")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "replacement tags (repeatable)")
	return cmd
}
