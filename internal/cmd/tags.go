package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravitrone/quorum/cli/internal/api"
	"github.com/gravitrone/quorum/cli/internal/config"
	"github.com/gravitrone/quorum/cli/internal/logging"
)

// TagsCmd returns the `quorum tags` command group.
func TagsCmd(flags *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Search and list tags",
	}
	cmd.AddCommand(tagsSearchCmd(flags))
	cmd.AddCommand(tagsListCmd(flags))
	return cmd
}

func tagsSearchCmd(flags *GlobalFlags) *cobra.Command {
	var limit int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search tags by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, logger, err := loadForCommand(*flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if limit <= 0 {
				limit = cfg.SearchLimitOrDefault()
			}
			return RunTagSearch(Client(cfg).WithLogger(logger), logger, c.OutOrStdout(), args[0], limit, asJSON)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum tags to return")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tab-separated rows")
	return cmd
}

// RunTagSearch prints the tags matching keyword in server order. A failed
// search prints nothing and is only logged, matching the picker.
func RunTagSearch(client *api.Client, logger *zap.Logger, out io.Writer, keyword string, limit int, asJSON bool) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil
	}
	res, err := client.SearchTags(keyword, limit)
	if err != nil {
		logger.Warn("tag search failed", zap.String("keyword", keyword), zap.Error(err))
		return nil
	}
	if !res.Success {
		logger.Warn("tag search unsuccessful", zap.String("keyword", keyword))
		return nil
	}
	return printTags(out, res.Tags, asJSON)
}

func tagsListCmd(flags *GlobalFlags) *cobra.Command {
	var limit, offset int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags, most used first",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, logger, err := loadForCommand(*flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			tags, err := Client(cfg).WithLogger(logger).ListTags(limit, offset)
			if err != nil {
				return fmt.Errorf("list tags: %w", err)
			}
			return printTags(c.OutOrStdout(), tags, asJSON)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum tags to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "tags to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tab-separated rows")
	return cmd
}

func printTags(out io.Writer, tags []api.Tag, asJSON bool) error {
	if asJSON {
		if tags == nil {
			tags = []api.Tag{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tags)
	}
	for _, tag := range tags {
		fmt.Fprintf(out, "%s\t%s\n", tag.ID, tag.Name)
	}
	return nil
}

// loadForCommand reads the config when present, applies flags and opens the
// log file. Non-TUI commands work without a config against public endpoints.
func loadForCommand(flags GlobalFlags) (*config.Config, *zap.Logger, error) {
	existing, err := config.Load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, nil, err
		}
		existing = nil
	}
	cfg, err := flags.Apply(existing)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogPath(), cfg.LogLevelOrDefault())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
