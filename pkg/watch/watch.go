// Package watch re-runs a conversion when its sources change
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period after the last change before the
// callback runs
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches source directories and archives
type Watcher struct {
	paths    []string
	ignore   []string
	debounce time.Duration
	logger   zerolog.Logger

	// files holds watched archive files; other files next to them are ignored
	files map[string]bool
	// trees holds every directory inside a watched source directory
	trees map[string]bool
	// watched holds the directories registered with fsnotify
	watched map[string]bool
}

// New returns a watcher for the given source paths. Changes below any of
// the ignore paths never trigger a run.
func New(paths, ignore []string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		paths:    paths,
		ignore:   ignore,
		debounce: debounce,
		logger:   logging.GetLogger("watch"),
		files:    make(map[string]bool),
		trees:    make(map[string]bool),
		watched:  make(map[string]bool),
	}
}

// Run blocks until ctx is cancelled, calling onChange once per burst of
// changes. Errors from onChange are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create file watcher")
	}
	defer func() { _ = watcher.Close() }()

	for _, p := range w.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.Wrapf(err, errors.ErrSourceAccess, "bad source path %q", p)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return errors.Wrapf(err, errors.ErrSourceNotFound, "cannot watch %s", p)
		}
		if info.IsDir() {
			if err := w.addTree(watcher, abs); err != nil {
				return err
			}
			continue
		}
		w.files[abs] = true
		if err := w.addDir(watcher, filepath.Dir(abs)); err != nil {
			return err
		}
	}

	w.logger.Info().Int("dirs", len(w.watched)).Dur("debounce", w.debounce).Msg("Watching sources")

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(watcher, event.Name); err != nil {
						w.logger.Warn().Err(err).Str("path", event.Name).Msg("Cannot watch new directory")
					}
				}
			}
			w.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("Source changed")
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Info().Msg("Sources changed, converting")
			if err := onChange(ctx); err != nil {
				w.logger.Error().Err(err).Msg("Conversion failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	for _, ig := range w.ignore {
		abs, err := filepath.Abs(ig)
		if err == nil && (name == abs || strings.HasPrefix(name, abs+string(filepath.Separator))) {
			return false
		}
	}

	return w.files[name] || w.trees[name] || w.trees[filepath.Dir(name)]
}

func (w *Watcher) addDir(watcher *fsnotify.Watcher, dir string) error {
	if w.watched[dir] {
		return nil
	}
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, errors.ErrSourceAccess, "cannot watch %s", dir)
	}
	w.watched[dir] = true
	return nil
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.addDir(watcher, path); err != nil {
			return err
		}
		w.trees[path] = true
		return nil
	})
}
