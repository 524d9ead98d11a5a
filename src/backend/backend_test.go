package backend

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kicad-impart/src/folderwatch"
)

type recordingImporter struct {
	mu       sync.Mutex
	archives []string
	fail     error
}

func (i *recordingImporter) Import(ctx context.Context, archive string, overwrite bool) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.archives = append(i.archives, archive)
	return i.fail
}

func (i *recordingImporter) imported() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.archives...)
}

func writeArchive(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("z"), 2048), 0o644))
	return path
}

func TestImportArchiveLogsStartAndFinish(t *testing.T) {
	imp := &recordingImporter{}
	b := New(imp, nil)

	<-b.ImportArchive(context.Background(), "/tmp/part.zip")

	text, _ := b.Status.Snapshot()
	assert.Contains(t, text, "import started: part.zip")
	assert.Contains(t, text, "import finished: part.zip")
	assert.Equal(t, []string{"/tmp/part.zip"}, imp.imported())
}

func TestImportArchiveLogsFailure(t *testing.T) {
	imp := &recordingImporter{fail: errors.New("bad footprint")}
	b := New(imp, nil)

	<-b.ImportArchive(context.Background(), "/tmp/part.zip")

	text, _ := b.Status.Snapshot()
	assert.Contains(t, text, "import failed: part.zip: bad footprint")
	assert.NotContains(t, text, "import finished")
}

func TestOverwriteImportResetsKnownArchives(t *testing.T) {
	dir := t.TempDir()
	path := writeArchive(t, dir, "vendor.zip")

	w, err := folderwatch.New(dir, 0, 0)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Close()

	select {
	case got := <-w.Events():
		assert.Equal(t, path, got)
	case <-time.After(2 * time.Second):
		t.Fatal("initial scan emitted nothing")
	}

	b := New(&recordingImporter{}, w)
	b.SetOverwriteImport(true)
	assert.True(t, b.OverwriteImport())

	// The already-imported archive is offered again.
	select {
	case got := <-w.Events():
		assert.Equal(t, path, got)
	case <-time.After(2 * time.Second):
		t.Fatal("reset did not re-offer the archive")
	}
}

func TestAutoImportConsumesWatcherEvents(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "vendor.zip")

	w, err := folderwatch.New(dir, 0, 0)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Close()

	imp := &recordingImporter{}
	b := New(imp, w)
	b.StartAutoImport(context.Background())
	assert.True(t, b.AutoImport())

	require.Eventually(t, func() bool {
		text, _ := b.Status.Snapshot()
		return strings.Contains(text, "import finished: vendor.zip")
	}, 3*time.Second, 20*time.Millisecond)

	b.Close()
	assert.False(t, b.AutoImport())
	assert.Len(t, imp.imported(), 1)
}

func TestCloseWaitsForWorkers(t *testing.T) {
	imp := &recordingImporter{}
	b := New(imp, nil)
	for i := 0; i < 5; i++ {
		b.ImportArchive(context.Background(), "/tmp/part.zip")
	}
	b.Close()
	assert.Len(t, imp.imported(), 5)
}
