package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "minutes.yaml"

type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root command. Running it records a meeting.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rec := &recordOptions{}

	rootCmd := &cobra.Command{
		Use:   "minutes",
		Short: "Record a meeting and produce timestamped minutes with a summary",
		Long: `minutes records the meeting in fixed-length segments, transcribes each one,
and on Ctrl+C saves the transcript and asks a language model for a summary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, opts, rec)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "Path to the yaml config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.Flags().StringVar(&rec.title, "title", "", "Meeting title, used in output filenames")
	rootCmd.Flags().IntVar(&rec.segment, "segment", 60, "Recording segment length in seconds")
	rootCmd.Flags().StringVar(&rec.inbox, "inbox", "", "Transcribe files dropped into this folder instead of the microphone")
	rootCmd.Flags().BoolVar(&rec.docx, "docx", false, "Also export the minutes as a .docx document")
	rootCmd.MarkFlagRequired("title")

	rootCmd.AddCommand(NewHistoryCommand(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file (optional when left at its default),
// then .env and the environment, then the persistent flags.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg := &config.Config{}

	loaded, err := config.Load(opts.configPath)
	switch {
	case err == nil:
		cfg = loaded
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
	default:
		return nil, err
	}

	if err := config.LoadEnv(cfg); err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	return cfg, nil
}
