package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Change reports that a watched file was written or replaced
type Change struct {
	Path string // as passed to New
}

// Watcher reports changes to a fixed set of files. It watches their parent
// directories so files replaced by rename are still seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	names   map[string]string // absolute path -> path as given
	changes chan Change
	logger  *slog.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a watcher for the given files. Call Start to begin delivery.
func New(paths []string, logger *slog.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	names := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		names[abs] = path

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		watcher: fw,
		names:   names,
		changes: make(chan Change, 16),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Changes returns the channel of file changes. It is closed by Close.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins processing events in a goroutine
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			path, watched := w.names[filepath.Clean(event.Name)]
			if !watched {
				continue
			}
			w.logger.Debug("file changed", "path", path, "op", event.Op.String())
			w.send(Change{Path: path})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// send delivers a change without blocking; when the buffer is full a
// reload is already queued for the reader
func (w *Watcher) send(c Change) {
	select {
	case w.changes <- c:
	case <-w.ctx.Done():
	default:
		w.logger.Debug("change dropped, queue full", "path", c.Path)
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.cancel()
		err = w.watcher.Close()
		w.wg.Wait()
		close(w.changes)
	})
	return err
}
