package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravitrone/quorum/cli/internal/cmd"
	"github.com/gravitrone/quorum/cli/internal/config"
	"github.com/gravitrone/quorum/cli/internal/logging"
	"github.com/gravitrone/quorum/cli/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &cmd.GlobalFlags{}
	root := &cobra.Command{
		Use:   "quorum",
		Short: "Quorum - ask the community",
		Long:  "Quorum CLI: compose questions, pick tags, and search the tag catalogue.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(*flags, "")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.Register(root.PersistentFlags())

	root.AddCommand(cmd.LoginCmd(flags))
	root.AddCommand(cmd.TagsCmd(flags))
	root.AddCommand(&cobra.Command{
		Use:   "ask",
		Short: "Compose a new question",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(*flags, "")
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "edit <question-id>",
		Short: "Edit one of your questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return errors.New("question id is required")
			}
			return runTUI(*flags, id)
		},
	})
	return root
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI(flags cmd.GlobalFlags, editID string) error {
	loaded, err := config.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
				fmt.Println("not logged in. run 'quorum login' first.")
				return err
			}
			loaded = nil
		} else {
			return err
		}
	}

	cfg, err := flags.Apply(loaded)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogPath(), cfg.LogLevelOrDefault())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client := cmd.Client(cfg).WithLogger(logger.Named("api"))
	app := ui.NewApp(client, cfg, ui.Options{
		Picker: ui.PickerOptions(cfg),
		EditID: editID,
		Logger: logger,
	})

	logger.Info("tui start", zap.String("base_url", client.BaseURL()), zap.String("edit_id", editID))
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
