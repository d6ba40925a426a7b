// Package scan runs guard analysis over discovered source files.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/guardgen/internal/discover"
	"github.com/phobologic/guardgen/internal/guard"
	"github.com/phobologic/guardgen/internal/lang"
	"github.com/phobologic/guardgen/internal/model"
	"github.com/phobologic/guardgen/internal/names"
	"github.com/phobologic/guardgen/internal/parse"
	"github.com/phobologic/guardgen/internal/syntax"
)

// Options configures a Scanner.
type Options struct {
	// Workers bounds parallelism; 0 means GOMAXPROCS.
	Workers int
	// MaxFileSize skips larger files; 0 means no limit.
	MaxFileSize int64
	// IncludeAbstract analyzes members of interfaces and abstract classes.
	IncludeAbstract bool
	Guard           guard.Options
	Logger          *zap.Logger
}

// Scanner turns source files into report entries. It is safe for
// concurrent use.
type Scanner struct {
	opts      Options
	assembler *guard.Assembler
	log       *zap.Logger
}

// New returns a Scanner.
func New(opts Options) *Scanner {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Guard.Logger == nil {
		opts.Guard.Logger = log
	}
	return &Scanner{opts: opts, assembler: guard.NewAssembler(opts.Guard), log: log}
}

// FilterBySize drops files larger than the configured limit, logging a
// warning for each. Files that cannot be stat'ed are kept.
func (s *Scanner) FilterBySize(root string, files []discover.FileEntry) []discover.FileEntry {
	if s.opts.MaxFileSize <= 0 {
		return files
	}
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > s.opts.MaxFileSize {
			s.log.Warn("skipped large file", zap.String("file", f.Path), zap.Int64("limit", s.opts.MaxFileSize))
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

type parserPair struct {
	lang   *lang.Language
	parser *sitter.Parser
	query  *sitter.Query
}

// Files analyzes files under root in parallel, one parser per worker, and
// returns entries in input order. Files that cannot be read or parsed are
// logged and skipped; files without configs are omitted. The only error
// is cancellation of ctx.
func (s *Scanner) Files(ctx context.Context, root string, files []discover.FileEntry) ([]model.FileInfo, error) {
	if len(files) == 0 {
		return nil, nil
	}

	numWorkers := s.opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	numWorkers = min(numWorkers, len(files))

	g, ctx := errgroup.WithContext(ctx)
	work := make(chan int)
	indexed := make([]model.FileInfo, len(files))
	valid := make([]bool, len(files))

	g.Go(func() error {
		defer close(work)
		for i := range files {
			select {
			case work <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for range numWorkers {
		g.Go(func() error {
			// Each goroutine gets its own parsers
			parsers := make(map[string]*parserPair)
			defer func() {
				for _, pp := range parsers {
					pp.parser.Close()
				}
			}()

			for idx := range work {
				if err := ctx.Err(); err != nil {
					return err
				}
				f := files[idx]
				pp, ok := parsers[f.Language]
				if !ok {
					var err error
					if pp, err = newParserPair(f.Language); err != nil {
						s.log.Warn("no parser", zap.String("file", f.Path), zap.Error(err))
						continue
					}
					parsers[f.Language] = pp
				}

				source, err := os.ReadFile(filepath.Join(root, f.Path))
				if err != nil {
					s.log.Warn("failed to read file", zap.String("file", f.Path), zap.Error(err))
					continue
				}
				info, err := s.analyze(pp, source, f)
				if err != nil {
					s.log.Warn("failed to parse file", zap.String("file", f.Path), zap.Error(err))
					continue
				}
				if len(info.Callables) > 0 {
					indexed[idx] = info
					valid[idx] = true
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.FileInfo
	for i, v := range valid {
		if v {
			out = append(out, indexed[i])
		}
	}
	return out, nil
}

// Source analyzes one in-memory file. path is repo-relative and only
// feeds the report and config IDs.
func (s *Scanner) Source(path string, source []byte) (model.FileInfo, error) {
	langName := lang.ForExtension(filepath.Ext(path))
	if langName == "" {
		return model.FileInfo{}, fmt.Errorf("%s: unsupported file type", path)
	}
	pp, err := newParserPair(langName)
	if err != nil {
		return model.FileInfo{}, err
	}
	defer pp.parser.Close()
	return s.analyze(pp, source, discover.FileEntry{Path: path, Language: langName})
}

func newParserPair(langName string) (*parserPair, error) {
	l := lang.Languages[langName]
	if l == nil {
		return nil, fmt.Errorf("unsupported language %q", langName)
	}
	q, err := l.GetCallableQuery()
	if err != nil {
		return nil, fmt.Errorf("query for %s: %w", langName, err)
	}
	return &parserPair{lang: l, parser: l.NewParser(), query: q}, nil
}

func (s *Scanner) analyze(pp *parserPair, source []byte, f discover.FileEntry) (model.FileInfo, error) {
	callables, err := parse.ExtractCallables(pp.lang, pp.parser, pp.query, source, f.Path)
	if err != nil {
		return model.FileInfo{}, err
	}

	info := model.FileInfo{Path: f.Path, Language: f.Language}
	for i := range callables {
		c := &callables[i]
		if !c.Instantiable && !s.opts.IncludeAbstract {
			s.log.Debug("skipping non-instantiable callable",
				zap.String("file", f.Path), zap.String("callable", c.QualifiedName()))
			continue
		}
		configs := s.assembler.Assemble(c)
		if len(configs) == 0 {
			continue
		}
		info.Callables = append(info.Callables, reportCallable(f.Path, c, configs))
	}
	return info, nil
}

func reportCallable(path string, c *syntax.Callable, configs []guard.BuildConfig) model.Callable {
	out := model.Callable{
		Name:      c.Name,
		Class:     c.Class,
		Kind:      string(c.Kind),
		Line:      c.Line,
		Signature: c.Signature,
	}
	signature := c.Class + "." + c.Signature
	for _, cfg := range configs {
		id := names.ConfigID(path, signature, cfg)
		out.Configs = append(out.Configs, model.Config{
			ID:          id.String(),
			TestName:    names.TestName(id, c.Name, cfg),
			ParamIndex:  cfg.ParamIndex,
			Param:       cfg.Param,
			FailureKind: cfg.FailureKind,
			Value:       cfg.Value.String(),
		})
	}
	return out
}
