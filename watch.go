package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phobologic/guardgen/internal/config"
	"github.com/phobologic/guardgen/internal/discover"
	"github.com/phobologic/guardgen/internal/logging"
	"github.com/phobologic/guardgen/internal/model"
	"github.com/phobologic/guardgen/internal/scan"
	"github.com/phobologic/guardgen/internal/watch"
)

// newWatchCmd builds `guardgen watch`, which prints a report and then a
// fresh one after every settled batch of source or config changes.
func newWatchCmd(flags *scanFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:           "watch [path]",
		Short:         "Rescan whenever Java sources or the config change",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			root, err := resolveRoot(args)
			if err != nil {
				return err
			}

			log := logging.New(stderr, flags.verbose)
			defer func() { _ = log.Sync() }()

			err = runWatch(cmd.Context(), root, flags, stdout, log)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func runWatch(ctx context.Context, root string, flags *scanFlags, stdout io.Writer, log *zap.Logger) error {
	s := &session{root: root, flags: flags, log: log, files: make(map[string]model.FileInfo)}
	if err := s.reload(ctx); err != nil {
		return err
	}
	if err := s.print(stdout); err != nil {
		return err
	}

	w, err := watch.New(root, watch.Options{
		Match: func(rel string) bool {
			return watch.IsSource(rel) || filepath.Base(rel) == config.FileName
		},
		Logger: log,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	var failed error
	err = w.Run(ctx, func(changed []string) {
		if err := s.update(ctx, changed); err != nil {
			// Keep watching; a bad config edit is usually fixed by the next save.
			log.Error("rescan failed", zap.Error(err))
			return
		}
		if err := s.print(stdout); err != nil {
			failed = err
		}
	})
	if failed != nil {
		return failed
	}
	return err
}

// session holds the per-file results of a watch so that a change only
// rescans the files it touched.
type session struct {
	root  string
	flags *scanFlags
	log   *zap.Logger

	cfg     *config.Config
	scanner *scan.Scanner
	files   map[string]model.FileInfo // repo-relative path → guarded callables
}

// reload reads the config and rescans every file.
func (s *session) reload(ctx context.Context) error {
	cfg, _, err := loadConfig(s.root, s.flags)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.scanner = newScanner(cfg, s.log)

	entries, err := s.discover()
	if err != nil {
		return err
	}
	infos, err := s.scanner.Files(ctx, s.root, entries)
	if err != nil {
		return err
	}
	clear(s.files)
	for _, fi := range infos {
		s.files[fi.Path] = fi
	}
	return nil
}

// update rescans changed files. A changed directory stands for every file
// below it. A config change triggers a full reload.
func (s *session) update(ctx context.Context, changed []string) error {
	for _, rel := range changed {
		if filepath.Base(rel) == config.FileName {
			s.log.Debug("config changed, rescanning all files")
			return s.reload(ctx)
		}
	}

	entries, err := s.discover()
	if err != nil {
		return err
	}

	for path := range s.files {
		if under(path, changed) {
			delete(s.files, path)
		}
	}
	var rescan []discover.FileEntry
	for _, e := range entries {
		if under(e.Path, changed) {
			rescan = append(rescan, e)
		}
	}
	infos, err := s.scanner.Files(ctx, s.root, rescan)
	if err != nil {
		return err
	}
	for _, fi := range infos {
		s.files[fi.Path] = fi
	}
	return nil
}

// under reports whether path is one of changed or lies below one of them.
func under(path string, changed []string) bool {
	for _, c := range changed {
		if path == c || strings.HasPrefix(path, c+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (s *session) discover() ([]discover.FileEntry, error) {
	entries, err := discover.Files(s.root, s.cfg.DiscoverOptions())
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	return s.scanner.FilterBySize(s.root, entries), nil
}

func (s *session) report() *model.Report {
	infos := make([]model.FileInfo, 0, len(s.files))
	for _, fi := range s.files {
		infos = append(infos, fi)
	}
	return buildReport(s.root, infos, s.flags)
}

func (s *session) print(w io.Writer) error {
	output, err := render(s.report(), s.flags.format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, output+"\n")
	return err
}
