package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/guardgen/internal/config"
)

const (
	sentinelStart = "# guardgen:start"
	sentinelEnd   = "# guardgen:end"

	// defaultCachePath is the conventional --cache location.
	defaultCachePath = ".guardgen-cache"
)

// newInitCmd builds `guardgen init`, which writes a default config file and
// keeps the cache file out of version control.
func newInitCmd(stdout, stderr io.Writer) *cobra.Command {
	var dryRun, force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default " + config.FileName + " and ignore the cache file",
		Long: `Write a default ` + config.FileName + ` to the repository root (path defaults
to the current directory) and add the conventional cache file to .gitignore.
The .gitignore entry is wrapped in sentinel comments so it can be updated in
place on subsequent runs without touching surrounding content.

An existing config file is left alone unless --force is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return runInit(root, dryRun, force, stdout, stderr)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying any file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func runInit(root string, dryRun, force bool, stdout, stderr io.Writer) error {
	data, err := config.Marshal(config.Default())
	if err != nil {
		return err
	}

	cfgPath := filepath.Join(root, config.FileName)
	ignorePath := filepath.Join(root, ".gitignore")

	existing, err := os.ReadFile(ignorePath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", ignorePath, err)
	}
	ignore := applySection(string(existing), generateSection())

	if dryRun {
		_, _ = fmt.Fprintf(stdout, "--- %s\n%s", cfgPath, data)
		_, _ = fmt.Fprintf(stdout, "--- %s\n%s", ignorePath, ignore)
		return nil
	}

	if _, err := os.Stat(cfgPath); err == nil && !force {
		_, _ = fmt.Fprintf(stderr, "%s already exists; use --force to overwrite\n", cfgPath)
	} else {
		if err := os.WriteFile(cfgPath, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", cfgPath, err)
		}
		_, _ = fmt.Fprintf(stderr, "wrote %s\n", cfgPath)
	}

	if err := os.WriteFile(ignorePath, []byte(ignore), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", ignorePath, err)
	}
	_, _ = fmt.Fprintf(stderr, "updated %s\n", ignorePath)
	return nil
}

// generateSection returns the sentinel-wrapped .gitignore block.
func generateSection() string {
	return sentinelStart + "\n" + defaultCachePath + "\n" + sentinelEnd
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if len(content) > 0 {
		content += "\n"
	}
	return content + section + "\n"
}
