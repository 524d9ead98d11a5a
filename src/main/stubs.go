package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// consoleFrontend stands in for the host CAD application's dialog when
// the plugin runs standalone. Window state is tracked but only reported
// on the console.
type consoleFrontend struct {
	shown    bool
	iconized bool
	closed   bool
}

func newConsoleFrontend() *consoleFrontend {
	return &consoleFrontend{shown: true}
}

func (f *consoleFrontend) IsShown() (bool, error) {
	if f.closed {
		return false, errors.New("window destroyed")
	}
	return f.shown, nil
}

func (f *consoleFrontend) Show(show bool) error {
	if f.closed {
		return errors.New("window destroyed")
	}
	f.shown = show
	log.Printf("frontend: show=%v", show)
	return nil
}

func (f *consoleFrontend) IsIconized() (bool, error) {
	if f.closed {
		return false, errors.New("window destroyed")
	}
	return f.iconized, nil
}

func (f *consoleFrontend) Iconize(iconize bool) error {
	if f.closed {
		return errors.New("window destroyed")
	}
	f.iconized = iconize
	log.Printf("frontend: iconize=%v", iconize)
	return nil
}

func (f *consoleFrontend) Raise() error {
	if f.closed {
		return errors.New("window destroyed")
	}
	log.Printf("frontend: raised")
	return nil
}

func (f *consoleFrontend) SetFocus() error {
	if f.closed {
		return errors.New("window destroyed")
	}
	log.Printf("frontend: focused")
	return nil
}

// UpdateStatus receives the full status buffer from the poller, on the
// UI loop. The console frontend just prints the newest line.
func (f *consoleFrontend) UpdateStatus(text string) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(os.Stdout, lines[len(lines)-1])
}

// loggingImporter stands in for the vendor converters, which are
// supplied by the host when the plugin is loaded for real. It validates
// the archive exists and reports what would be converted.
type loggingImporter struct {
	dest string
}

func (i *loggingImporter) Import(ctx context.Context, archive string, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(archive); err != nil {
		return fmt.Errorf("archive unreadable: %w", err)
	}
	log.Printf("importer: would convert %s into %s (overwrite=%v)", filepath.Base(archive), i.dest, overwrite)
	return nil
}
