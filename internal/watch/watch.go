// Package watch reports settled source changes under a directory tree.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/phobologic/guardgen/internal/discover"
	"github.com/phobologic/guardgen/internal/lang"
)

// DefaultDebounce is how long a path must stay quiet before it is reported.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	// Match selects repo-relative paths worth reporting. Nil matches
	// files of any registered language.
	Match  func(rel string) bool
	Logger *zap.Logger
}

// Watcher watches root and its subdirectories, skipping the directories
// discovery skips.
type Watcher struct {
	root     string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	match    func(string) bool
	log      *zap.Logger

	mu      sync.Mutex
	pending map[string]time.Time
	dirs    map[string]struct{} // watched directories, absolute
}

// New starts watching root. Call Close when done.
func New(root string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{
		root:     root,
		fsw:      fsw,
		debounce: opts.Debounce,
		match:    opts.Match,
		log:      opts.Logger,
		pending:  make(map[string]time.Time),
		dirs:     make(map[string]struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.match == nil {
		w.match = IsSource
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}
	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// IsSource reports whether rel has the extension of a registered language.
func IsSource(rel string) bool {
	return lang.ForExtension(filepath.Ext(rel)) != ""
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && discover.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		w.mu.Lock()
		w.dirs[path] = struct{}{}
		w.mu.Unlock()
		return nil
	})
}

// forgetTree drops dir and everything below it from the watched set and
// reports whether dir was being watched.
func (w *Watcher) forgetTree(dir string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.dirs[dir]; !ok {
		return false
	}
	prefix := dir + string(filepath.Separator)
	for d := range w.dirs {
		if d == dir || strings.HasPrefix(d, prefix) {
			delete(w.dirs, d)
			_ = w.fsw.Remove(d) // already gone when the directory was deleted
		}
	}
	return true
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks until ctx is done, calling onChange with the sorted
// repo-relative paths that changed once each has been quiet for the
// debounce window. A directory created, removed or renamed under root is
// reported by its own path and stands for every file below it. onChange
// runs on the Run goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string)) error {
	tick := max(w.debounce/5, 10*time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case now := <-ticker.C:
			if changed := w.settled(now); len(changed) > 0 {
				onChange(changed)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return // Ignore chmod
	}

	if event.Op&fsnotify.Create != 0 {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if discover.SkipDir(filepath.Base(event.Name)) {
				return
			}
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			w.queue(event.Name, event.Op)
			return
		}
	}

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && event.Name != w.root && w.forgetTree(event.Name) {
		w.queue(event.Name, event.Op)
		return
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || !w.match(rel) {
		return
	}
	w.queue(event.Name, event.Op)
}

func (w *Watcher) queue(path string, op fsnotify.Op) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return
	}
	w.log.Debug("change", zap.String("path", rel), zap.Stringer("op", op))

	w.mu.Lock()
	w.pending[rel] = time.Now()
	w.mu.Unlock()
}

// settled removes and returns the pending paths quiet since before
// now minus the debounce window.
func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			out = append(out, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(out)
	return out
}
