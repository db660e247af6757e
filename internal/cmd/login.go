package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/quorum/cli/internal/config"
)

// RunInteractiveLogin prompts for username, calls login API, and persists config.
// Picker and log settings already in the config file are kept.
func RunInteractiveLogin(in io.Reader, out io.Writer, flags GlobalFlags) error {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	if username == "" {
		return errors.New("username is required")
	}

	existing, err := config.Load()
	if err != nil {
		existing = nil
	}
	cfg, err := flags.Apply(existing)
	if err != nil {
		return err
	}

	resp, err := Client(cfg).Login(username)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg.APIKey = resp.APIKey
	cfg.UserID = resp.UserID
	cfg.Username = resp.Username

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "logged in as %s\n", resp.Username)
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// LoginCmd returns the `quorum login` command.
func LoginCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a Quorum server",
		RunE: func(c *cobra.Command, _ []string) error {
			return RunInteractiveLogin(os.Stdin, c.OutOrStdout(), *flags)
		},
	}
}
