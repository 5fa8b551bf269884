package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/viant/notenest/config"
	"github.com/viant/notenest/database"
	"github.com/viant/notenest/embedding"
	"github.com/viant/notenest/note"
)

// app carries global flags and the stores opened for one invocation.
type app struct {
	cfgFile string
	dbPath  string
	verbose bool

	logger     *slog.Logger
	conn       *database.Connection
	notes      *note.Store
	embeddings *embedding.Store
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	defer a.close()
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notenest",
		Short: "Save URLs as notes in a local SQLite database",
		Long: `notenest keeps saved URLs with an optional title, summary and tags in a
local SQLite file, with an optional vector per note for similarity search.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "YAML configuration file")
	flags.StringVar(&a.dbPath, "db", "", "database file (overrides configuration)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(
		newAddCmd(a),
		newUpdateCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newEmbedCmd(a),
		newEmbeddingCmd(a),
		newSearchCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	a.logger.Debug("using database", "path", cfg.Database.Path)
	a.conn = database.New(cfg.Database, database.WithLogger(a.logger))
	a.notes = note.NewStore(a.conn)
	a.embeddings = embedding.NewStore(a.conn)
	return nil
}

func (a *app) close() {
	if a.conn == nil {
		return
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Warn("close database", "error", err)
	}
}
