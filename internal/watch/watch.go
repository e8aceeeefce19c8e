// Package watch re-runs derive expansion when watched source files change.
//
// The parent directories of the requested files are watched rather than the
// files themselves, so editors that save by rename-and-create do not drop
// the watch. Changes are debounced and delivered as one batch; the change
// handler runs on the watch loop goroutine, never concurrently.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/orizon-lang/orizon-derive/internal/oerrors"
)

// DefaultDebounce is the quiet period applied when none is configured.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches a fixed set of files and invokes a handler with the batch
// of files that changed since the last quiet period.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]string // absolute path -> path as given
	debounce time.Duration
	onChange func(files []string)
	log      *zap.SugaredLogger
	fire     chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]bool
}

// New creates a watcher over files. A nil logger disables logging; a
// non-positive debounce uses DefaultDebounce. onChange receives the files
// exactly as given.
func New(files []string, debounce time.Duration, log *zap.SugaredLogger, onChange func(files []string)) (*Watcher, error) {
	if len(files) == 0 {
		return nil, oerrors.New("no files to watch")
	}
	if onChange == nil {
		return nil, oerrors.New("nil change handler")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, oerrors.Wrap(err, "create file watcher")
	}

	w := &Watcher{
		watcher:  fsw,
		files:    make(map[string]string, len(files)),
		debounce: debounce,
		onChange: onChange,
		log:      log,
		fire:     make(chan struct{}, 1),
		pending:  make(map[string]bool),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, oerrors.Wrapf(err, "resolve %s", f)
		}
		w.files[abs] = f
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, oerrors.Wrapf(err, "watch %s", dir)
		}
	}
	log.Debugw("watching for changes", "files", len(w.files), "directories", len(dirs), "debounce", debounce)
	return w, nil
}

// Run blocks handling events until ctx is canceled or the watcher is
// closed, then returns nil.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil
		case <-w.fire:
			w.flush()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("watch error", "error", err)
		}
	}
}

// Close releases the underlying watcher, unblocking Run.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// handleEvent records a change to a watched file and re-arms the debounce
// timer.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	given, ok := w.files[filepath.Clean(event.Name)]
	if !ok {
		return
	}
	w.log.Debugw("change detected", "file", given, "op", event.Op.String())

	w.mu.Lock()
	w.pending[given] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.signal)
	w.mu.Unlock()
}

// signal nudges the run loop; a pending nudge already covers the batch.
func (w *Watcher) signal() {
	select {
	case w.fire <- struct{}{}:
	default:
	}
}

// flush hands the pending batch to the handler in sorted order.
func (w *Watcher) flush() {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for f := range w.pending {
		changed = append(changed, f)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)
	w.onChange(changed)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}
