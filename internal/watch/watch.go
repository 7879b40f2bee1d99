// Package watch reports changed source files under a set of roots.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of events, e.g. an editor's write-rename
// sequence, into one change set.
const DefaultDebounce = 100 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Exclude lists directory base names never watched.
	Exclude []string
	// Match selects the files worth reporting. Nil reports every file.
	Match    func(path string) bool
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher watches directories recursively.
type Watcher struct {
	fsw   *fsnotify.Watcher
	opts  Options
	files map[string]bool // roots given as files; nil when none
}

// New starts watching roots. Directories are watched recursively; a file
// root watches its directory but reports only that file.
func New(roots []string, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{fsw: fsw, opts: opts}
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
		if !info.IsDir() {
			if w.files == nil {
				w.files = make(map[string]bool)
			}
			w.files[abs] = true
			if err := fsw.Add(filepath.Dir(abs)); err != nil {
				_ = fsw.Close()
				return nil, fmt.Errorf("watch %s: %w", root, err)
			}
			continue
		}
		if err := w.addRecursive(abs); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", root, err)
		}
	}
	return w, nil
}

// addRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && slices.Contains(w.opts.Exclude, d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) wanted(path string) bool {
	if w.files != nil && !w.files[path] {
		return false
	}
	return w.opts.Match == nil || w.opts.Match(path)
}

// Run delivers debounced change sets to onChange until ctx is done. Paths
// are absolute and sorted; onChange runs on the caller's goroutine, so
// change sets never overlap. Run closes the watcher on return.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	defer func() { _ = w.fsw.Close() }()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					if !slices.Contains(w.opts.Exclude, info.Name()) {
						if err := w.addRecursive(path); err != nil {
							w.opts.Logger.Warn("failed to watch new directory", "dir", path, "error", err)
						}
					}
					continue
				}
			}
			if !w.wanted(path) {
				continue
			}
			pending[path] = true
			timer.Reset(w.opts.Debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			w.opts.Logger.Debug("files changed", "count", len(paths))
			onChange(paths)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Error("watcher error", "error", err)
		}
	}
}
