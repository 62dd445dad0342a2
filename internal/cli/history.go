package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alnah/go-studyguide/internal/history"
)

// HistoryCmd creates the history command with subcommands.
// The env parameter provides injectable dependencies for testing.
func HistoryCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved analyses",
		Long: `Browse analyses saved by previous runs.

History lives in the SQLite database at db-path
(default ~/.config/go-studyguide/history.db, env: STUDYGUIDE_DB_PATH).
Set db-path to "off" to disable it.

Entries are addressed by their id or by the YouTube video id.`,
		Example: `  studyguide history list
  studyguide history show dQw4w9WgXcQ
  studyguide history show dQw4w9WgXcQ -f json
  studyguide history delete dQw4w9WgXcQ`,
	}

	cmd.AddCommand(historyListCmd(env))
	cmd.AddCommand(historyShowCmd(env))
	cmd.AddCommand(historyDeleteCmd(env))

	return cmd
}

// historyListCmd creates the "history list" subcommand.
func historyListCmd(env *Env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the latest analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("limit must be positive, got %d: %w", limit, ErrInvalidLimit)
			}
			return runHistoryList(cmd, env, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum number of entries")
	return cmd
}

// historyShowCmd creates the "history show" subcommand.
func historyShowCmd(env *Env) *cobra.Command {
	var fmtName string
	cmd := &cobra.Command{
		Use:   "show <id|video-id>",
		Short: "Print one analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ParseFormat(fmtName)
			if err != nil {
				return err
			}
			return runHistoryShow(cmd, env, args[0], f.OrDefault())
		},
	}
	cmd.Flags().StringVarP(&fmtName, "format", "f", "", "Output format: md, json (default md)")
	return cmd
}

// historyDeleteCmd creates the "history delete" subcommand.
func historyDeleteCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|video-id>",
		Short: "Delete one analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryDelete(cmd, env, args[0])
		},
	}
}

// withHistory opens the configured store for the duration of fn.
func withHistory(env *Env, fn func(history.Store) error) error {
	cfg := loadConfig(env)
	if !cfg.PersistenceEnabled() {
		return fmt.Errorf("history is disabled (db-path=%q); enable it with: studyguide config set db-path <file>", cfg.DBPath)
	}
	log := newLogger(env, cfg)
	defer func() { _ = log.Sync() }()

	store, err := openStore(env, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

// runHistoryList handles the "history list" command.
func runHistoryList(cmd *cobra.Command, env *Env, limit int) error {
	return withHistory(env, func(store history.Store) error {
		items, err := store.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(env.Stderr, "No saved analyses.")
			return nil
		}

		tw := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tVIDEO\tCREATED\tTITLE")
		for _, it := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ID, it.VideoID, it.CreatedAt.Local().Format("2006-01-02 15:04"), it.Title)
		}
		return tw.Flush()
	})
}

// runHistoryShow handles the "history show" command.
func runHistoryShow(cmd *cobra.Command, env *Env, key string, f Format) error {
	return withHistory(env, func(store history.Store) error {
		m, err := store.Get(cmd.Context(), key)
		if err != nil {
			return fmt.Errorf("show %s: %w", strconv.Quote(key), err)
		}
		content, err := render(*m, f)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(env.Stdout, content)
		return err
	})
}

// runHistoryDelete handles the "history delete" command.
func runHistoryDelete(cmd *cobra.Command, env *Env, key string) error {
	return withHistory(env, func(store history.Store) error {
		if err := store.Delete(cmd.Context(), key); err != nil {
			return fmt.Errorf("delete %s: %w", strconv.Quote(key), err)
		}
		fmt.Fprintf(env.Stderr, "Deleted %s\n", key)
		return nil
	})
}
