package backend

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"kicad-impart/src/folderwatch"
)

// SupportedLibraries are the vendor sources whose archives the importer
// understands.
var SupportedLibraries = []string{
	"Octopart",
	"Samacsys",
	"UltraLibrarian",
	"Snapeda",
	"EasyEDA",
}

// Importer converts one vendor library archive into the destination
// KiCad libraries. Implementations live outside this module; the backend
// only drives them and reports their progress.
type Importer interface {
	Import(ctx context.Context, archive string, overwrite bool) error
}

// Backend is the import side of the plugin: it owns the status buffer
// the UI poller reads, launches one worker goroutine per archive, and
// optionally auto-imports archives as the folder watcher spots them.
// One Backend is constructed at process start and passed to everything
// that needs it.
type Backend struct {
	Status   *StatusBuffer
	importer Importer
	watcher  *folderwatch.Watcher

	mu              sync.Mutex
	autoImport      bool
	overwriteImport bool

	wg       sync.WaitGroup
	stopAuto context.CancelFunc
}

func New(importer Importer, watcher *folderwatch.Watcher) *Backend {
	return &Backend{
		Status:   NewStatusBuffer(),
		importer: importer,
		watcher:  watcher,
	}
}

// ImportArchive runs one import on its own worker goroutine, logging
// start and finish into the status buffer. The returned channel closes
// when the worker is done.
func (b *Backend) ImportArchive(ctx context.Context, archive string) <-chan struct{} {
	done := make(chan struct{})
	overwrite := b.OverwriteImport()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(done)

		name := filepath.Base(archive)
		b.Status.Append(fmt.Sprintf("import started: %s", name))
		log.Printf("backend: import started: %s", archive)

		if err := b.importer.Import(ctx, archive, overwrite); err != nil {
			b.Status.Append(fmt.Sprintf("import failed: %s: %v", name, err))
			log.Printf("backend: import failed: %s: %v", archive, err)
			return
		}

		b.Status.Append(fmt.Sprintf("import finished: %s", name))
		log.Printf("backend: import finished: %s", archive)
	}()
	return done
}

// StartAutoImport begins consuming the folder watcher's events,
// importing each newly seen archive. No-op when already running or when
// no watcher was supplied.
func (b *Backend) StartAutoImport(ctx context.Context) {
	b.mu.Lock()
	if b.watcher == nil || b.stopAuto != nil {
		b.mu.Unlock()
		return
	}
	autoCtx, cancel := context.WithCancel(ctx)
	b.stopAuto = cancel
	b.autoImport = true
	b.mu.Unlock()

	log.Printf("backend: auto-import started")
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-autoCtx.Done():
				log.Printf("backend: auto-import stopped")
				return
			case archive, ok := <-b.watcher.Events():
				if !ok {
					return
				}
				<-b.ImportArchive(autoCtx, archive)
			}
		}
	}()
}

// StopAutoImport cancels the auto-import loop. Idempotent.
func (b *Backend) StopAutoImport() {
	b.mu.Lock()
	cancel := b.stopAuto
	b.stopAuto = nil
	b.autoImport = false
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (b *Backend) AutoImport() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.autoImport
}

// SetOverwriteImport toggles overwriting already-imported parts.
// Enabling it also resets the watcher's known-files set so archives that
// were imported before get picked up again.
func (b *Backend) SetOverwriteImport(on bool) {
	b.mu.Lock()
	b.overwriteImport = on
	b.mu.Unlock()
	if on && b.watcher != nil {
		b.watcher.ResetKnown()
		log.Printf("backend: overwrite enabled, known archives reset")
	}
}

func (b *Backend) OverwriteImport() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overwriteImport
}

// Close stops auto-import and waits for in-flight workers to finish.
func (b *Backend) Close() {
	b.StopAutoImport()
	b.wg.Wait()
}
