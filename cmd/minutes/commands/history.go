package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/nguyentantai21042004/meeting-minutes/internal/archive"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "List archived meetings or show one of them",
		Long: `Show meetings recorded into the archive.
Without arguments: lists the most recent sessions
With a session ID: shows its segments and summary`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			cfg.SetDefaults()
			if cfg.Archive.Disabled {
				return fmt.Errorf("the archive is disabled in the config")
			}

			store, err := archive.Open(cfg.Archive.Path)
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				return listSessions(cmd, store, out, limit)
			}
			return showSession(cmd, store, out, args[0])
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of sessions to list (0 for all)")
	return cmd
}

func listSessions(cmd *cobra.Command, store *archive.Store, out io.Writer, limit int) error {
	sessions, err := store.Sessions(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions archived yet")
		return nil
	}

	fmt.Fprintln(out, "Sessions:")
	fmt.Fprintln(out, "=========")
	for i, s := range sessions {
		fmt.Fprintf(out, "%d. %s\n", i+1, s.Title)
		fmt.Fprintf(out, "   ID: %s\n", s.ID)
		fmt.Fprintf(out, "   Started: %s\n", s.StartedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "   Segments: %d\n", s.SegmentCount)
		if s.EndedAt == nil {
			fmt.Fprintln(out, "   Status: unfinished")
		}
		if s.TranscriptPath != "" {
			fmt.Fprintf(out, "   Transcript: %s\n", s.TranscriptPath)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func showSession(cmd *cobra.Command, store *archive.Store, out io.Writer, id string) error {
	s, err := store.Session(cmd.Context(), id)
	if err != nil {
		return err
	}
	segments, err := store.Segments(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load segments: %w", err)
	}

	fmt.Fprintf(out, "【%s】\n", s.Title)
	fmt.Fprintf(out, "Started: %s\n", s.StartedAt.Format("2006-01-02 15:04:05"))
	if s.EndedAt != nil {
		fmt.Fprintf(out, "Ended: %s\n", s.EndedAt.Format("2006-01-02 15:04:05"))
	}
	if s.TranscriptPath != "" {
		fmt.Fprintf(out, "Transcript: %s\n", s.TranscriptPath)
	}
	fmt.Fprintln(out, strings.Repeat("=", 40))

	for _, seg := range segments {
		fmt.Fprintf(out, "[%s]\n", seg.Timestamp)
		for _, u := range seg.Utterances {
			fmt.Fprintln(out, u)
		}
	}

	if s.Summary != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "【要約】")
		fmt.Fprintln(out, *s.Summary)
	}
	return nil
}
