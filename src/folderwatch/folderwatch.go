// Package folderwatch watches the download folder for vendor library
// archives and emits each newly seen one exactly once.
package folderwatch

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const (
	// Size bounds for a plausible vendor archive. Anything outside is a
	// partial download or not a library at all.
	DefaultMinSize = 1_000
	DefaultMaxSize = 50_000_000
)

// Watcher tracks which archives in a directory have already been seen
// and emits paths of new ones. "Seen" survives until ResetKnown, so an
// archive is offered for import only once per session unless the user
// asks for a re-run.
type Watcher struct {
	dir     string
	minSize int64
	maxSize int64

	mu    sync.Mutex
	known map[string]struct{}

	fsw       *fsnotify.Watcher
	events    chan string
	done      chan struct{}
	closeOnce sync.Once
}

func New(dir string, minSize, maxSize int64) (*Watcher, error) {
	if minSize <= 0 {
		minSize = DefaultMinSize
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &Watcher{
		dir:     dir,
		minSize: minSize,
		maxSize: maxSize,
		known:   make(map[string]struct{}),
		fsw:     fsw,
		events:  make(chan string, 16),
		done:    make(chan struct{}),
	}, nil
}

// Start scans the directory once for archives already present, then
// follows filesystem events. Returns an error if the directory cannot
// be watched.
func (w *Watcher) Start() error {
	if err := w.fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.scan()
	go w.loop()
	log.Printf("folderwatch: watching %s", w.dir)
	return nil
}

// Events returns the stream of newly seen archive paths.
func (w *Watcher) Events() <-chan string { return w.events }

// ResetKnown forgets every archive seen so far and re-offers whatever is
// currently in the directory.
func (w *Watcher) ResetKnown() {
	w.mu.Lock()
	w.known = make(map[string]struct{})
	w.mu.Unlock()
	log.Printf("folderwatch: known archives reset")
	w.scan()
}

// Close stops watching and releases the fsnotify handle. Idempotent.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.offer(event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("folderwatch: %v", err)
		}
	}
}

// scan offers everything currently in the directory.
func (w *Watcher) scan() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		log.Printf("folderwatch: scan %s: %v", w.dir, err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		w.offer(filepath.Join(w.dir, e.Name()))
	}
}

// offer emits path if it looks like a vendor archive and has not been
// seen before.
func (w *Watcher) offer(path string) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return
	}
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return
	}
	if st.Size() < w.minSize || st.Size() > w.maxSize {
		return
	}

	w.mu.Lock()
	if _, seen := w.known[path]; seen {
		w.mu.Unlock()
		return
	}
	w.known[path] = struct{}{}
	w.mu.Unlock()

	select {
	case w.events <- path:
		log.Printf("folderwatch: new archive %s", path)
	case <-w.done:
	}
}
