package tabfile

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// RowFunc receives the first two fields of one appended record.
type RowFunc func(col1, col2 string)

// Watcher follows a record file and delivers rows appended to it after the
// watch started. Rows already present when the Watcher is created are
// delivered immediately.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	onRow    RowFunc
	debounce time.Duration
	timer    *time.Timer
	stopCh   chan struct{}

	mu       sync.Mutex
	consumed int
}

// NewWatcher starts following path. onRow is invoked from a background
// goroutine, once per complete record, in file order.
func NewWatcher(path string, logger zerolog.Logger, onRow RowFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		watcher:  fsw,
		logger:   logger,
		onRow:    onRow,
		debounce: 200 * time.Millisecond,
		stopCh:   make(chan struct{}),
	}

	// Watch the directory, not the file: rewrites replace the inode and a
	// file watch would go stale.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w.deliver()
	go w.run()

	return w, nil
}

// Stop stops the watcher. No rows are delivered after Stop returns.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	err := w.watcher.Close()

	// Cancel any pending delivery and wait out one in flight.
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	return err
}

// run processes file system events.
func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.logger.Debug().
					Str("file", filepath.Base(event.Name)).
					Str("op", event.Op.String()).
					Msg("Record file change detected")
				w.scheduleDeliver()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("File watcher error")

		case <-w.stopCh:
			return
		}
	}
}

// scheduleDeliver debounces bursts of write events into one delivery pass.
func (w *Watcher) scheduleDeliver() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.deliver)
}

// deliver re-reads the file and hands any rows past the consumed mark to
// the callback. Only the region up to the last newline is scanned: bytes
// past it belong to a row a writer is still flushing, and must neither be
// delivered nor counted. A file that shrank below the mark is treated as
// rewritten: the mark resets to the current row count without replaying
// rows.
func (w *Watcher) deliver() {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.stopCh:
		return
	default:
	}

	f, err := os.Open(w.path)
	if err != nil {
		if w.consumed > 0 {
			w.logger.Debug().Msg("Record file gone, resetting follow position")
		}
		w.consumed = 0
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		w.logger.Error().Err(err).Msg("Follow stat failed")
		return
	}
	limit := terminatedPrefix(f, info.Size())

	s := &Session{
		mode:    ModeRead,
		scanner: bufio.NewScanner(io.NewSectionReader(f, 0, limit)),
	}

	seen := 0
	for {
		col1, col2, ok := s.ReadLine()
		if !ok {
			break
		}
		seen++
		if seen > w.consumed {
			w.onRow(col1, col2)
		}
	}

	if seen < w.consumed {
		w.logger.Debug().Int("rows", seen).Msg("Record file shrank, resetting follow position")
	}
	w.consumed = seen
}

// terminatedPrefix returns the length of the leading region of f that ends
// with a newline, scanning backward from size.
func terminatedPrefix(f *os.File, size int64) int64 {
	const chunk = 4096
	buf := make([]byte, chunk)

	for end := size; end > 0; {
		start := end - chunk
		if start < 0 {
			start = 0
		}
		n, err := f.ReadAt(buf[:end-start], start)
		if err != nil && err != io.EOF {
			return 0
		}
		for i := n - 1; i >= 0; i-- {
			if buf[i] == '\n' {
				return start + int64(i) + 1
			}
		}
		end = start
	}

	return 0
}
