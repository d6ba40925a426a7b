// guardgen finds argument guards in Java callables and reports the
// adversarial inputs that trip them, in TOON or YAML.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/guardgen/internal/config"
	"github.com/phobologic/guardgen/internal/discover"
	"github.com/phobologic/guardgen/internal/logging"
	"github.com/phobologic/guardgen/internal/model"
	"github.com/phobologic/guardgen/internal/ranking"
	"github.com/phobologic/guardgen/internal/scan"
	"github.com/phobologic/guardgen/internal/toon"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	if args == nil {
		args = []string{} // cobra falls back to os.Args on nil
	}
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// scanFlags are shared by the root and watch commands.
type scanFlags struct {
	configPath  string
	maxFileSize int64
	maxFiles    int
	format      string
	file        string
	callable    string
	verbose     bool
}

func (f *scanFlags) register(cmd *cobra.Command) {
	fl := cmd.PersistentFlags()
	fl.StringVar(&f.configPath, "config", "", "config file (default <path>/"+config.FileName+" or $"+config.EnvPath+")")
	fl.Int64Var(&f.maxFileSize, "max-file-size", -1, "skip files larger than this many bytes (overrides config)")
	fl.IntVarP(&f.maxFiles, "max-files", "n", 0, "maximum number of files to include")
	fl.StringVar(&f.format, "format", "toon", "output format: toon or yaml")
	fl.StringVarP(&f.file, "file", "f", "", "only files whose path contains this substring")
	fl.StringVarP(&f.callable, "callable", "s", "", "only callables whose Class.name contains this substring")
	fl.BoolVar(&f.verbose, "verbose", false, "log debug detail to stderr")
}

func (f *scanFlags) validate() error {
	switch f.format {
	case "toon", "yaml":
		return nil
	}
	return fmt.Errorf("unsupported format %q (want toon or yaml)", f.format)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		flags       scanFlags
		cachePath   string
		showVersion bool
	)

	cmd := &cobra.Command{
		Use:   "guardgen [path]",
		Short: "Report adversarial test inputs for guarded Java callables",
		Long: `guardgen scans a Java source tree for argument guards (requireNonNull
calls, null checks and numeric range checks that throw) and reports, for
each guarded parameter, a literal value that makes the guard fire together
with the exception the call should raise.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				_, _ = fmt.Fprintf(stdout, "guardgen %s\n", version)
				return nil
			}
			if err := flags.validate(); err != nil {
				return err
			}
			root, err := resolveRoot(args)
			if err != nil {
				return err
			}

			log := logging.New(stderr, flags.verbose)
			defer func() { _ = log.Sync() }()

			return runScan(cmd.Context(), root, &flags, cachePath, stdout, log)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags.register(cmd)
	cmd.Flags().StringVar(&cachePath, "cache", "", "cache file path")
	cmd.Flags().BoolVarP(&showVersion, "version", "V", false, "show version and exit")

	cmd.AddCommand(newInitCmd(stdout, stderr))
	cmd.AddCommand(newWatchCmd(&flags, stdout, stderr))
	return cmd
}

func resolveRoot(args []string) (string, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: not a directory", root)
	}
	return root, nil
}

// loadConfig reads the config for root and applies flag overrides.
func loadConfig(root string, flags *scanFlags) (*config.Config, string, error) {
	cfg, path, err := config.Load(root, flags.configPath)
	if err != nil {
		return nil, "", err
	}
	if flags.maxFileSize >= 0 {
		cfg.MaxFileSize = flags.maxFileSize
	}
	return cfg, path, nil
}

func newScanner(cfg *config.Config, log *zap.Logger) *scan.Scanner {
	return scan.New(scan.Options{
		Workers:         cfg.Workers,
		MaxFileSize:     cfg.MaxFileSize,
		IncludeAbstract: cfg.IncludeAbstract,
		Guard:           cfg.GuardOptions(log),
		Logger:          log,
	})
}

func runScan(ctx context.Context, root string, flags *scanFlags, cachePath string, stdout io.Writer, log *zap.Logger) error {
	cfg, cfgPath, err := loadConfig(root, flags)
	if err != nil {
		return err
	}

	// Only unfiltered TOON output is cached.
	if flags.file != "" || flags.callable != "" || flags.format != "toon" {
		cachePath = ""
	}

	// Discover files
	files, err := discover.Files(root, cfg.DiscoverOptions())
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return errors.New("no Java files found")
	}

	// Check cache freshness
	if cachePath != "" && cacheIsFresh(cachePath, root, files, cfgPath) {
		data, err := os.ReadFile(cachePath)
		if err == nil {
			_, _ = stdout.Write(data)
			return nil
		}
	}

	scanner := newScanner(cfg, log)
	files = scanner.FilterBySize(root, files)
	if len(files) == 0 {
		return errors.New("no Java files found (all exceeded size limit)")
	}

	infos, err := scanner.Files(ctx, root, files)
	if err != nil {
		return err
	}

	output, err := render(buildReport(root, infos, flags), flags.format)
	if err != nil {
		return err
	}

	// Write cache
	if cachePath != "" {
		if err := os.WriteFile(cachePath, []byte(output+"\n"), 0o644); err != nil {
			log.Warn("failed to write cache", zap.String("path", cachePath), zap.Error(err))
		}
	}

	_, _ = fmt.Fprintln(stdout, output)
	return nil
}

// buildReport ranks infos in place and applies the file filters.
func buildReport(root string, infos []model.FileInfo, flags *scanFlags) *model.Report {
	ranking.Rank(infos)
	r := &model.Report{
		RepoName: filepath.Base(root),
		Root:     filepath.Base(root),
		Files:    infos,
	}
	if flags.file != "" {
		r = ranking.FilterByFile(r, flags.file)
	}
	if flags.callable != "" {
		r = ranking.FilterByCallable(r, flags.callable)
	}
	if flags.maxFiles > 0 {
		r = ranking.SelectFiles(r, flags.maxFiles)
	}
	return r
}

func render(r *model.Report, format string) (string, error) {
	if format == "yaml" {
		data, err := yaml.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("encoding report: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
	return toon.Encode(r), nil
}

// cacheIsFresh reports whether the cache is newer than every source file
// and the config file in use.
func cacheIsFresh(cachePath, root string, files []discover.FileEntry, cfgPath string) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	cacheMtime := cacheInfo.ModTime()

	newer := func(path string) bool {
		fi, err := os.Stat(path)
		return err != nil || !fi.ModTime().Before(cacheMtime)
	}

	if cfgPath != "" && newer(cfgPath) {
		return false
	}
	for _, f := range files {
		if newer(filepath.Join(root, f.Path)) {
			return false
		}
	}
	return true
}
