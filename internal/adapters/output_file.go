package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"golang.org/x/sys/unix"

	"repository-dist/internal/ports"
)

// OutputFileAdapter replaces files through a temporary sibling and a
// rename, so readers see either the old or the new content.
type OutputFileAdapter struct{}

func NewOutputFileAdapter() OutputFileAdapter {
	return OutputFileAdapter{}
}

func (a OutputFileAdapter) WriteFile(path string, data []byte, perm os.FileMode) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output path is empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create temporary file").
			WithCause(err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return writeFailure(err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return writeFailure(err)
	}
	if err := tmp.Sync(); err != nil {
		return writeFailure(err)
	}
	if err := tmp.Close(); err != nil {
		return writeFailure(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return writeFailure(err)
	}
	committed = true
	return syncDir(dir)
}

func writeFailure(err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to write file").
		WithCause(err)
}

func syncDir(dir string) error {
	handle, err := os.Open(dir)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open directory for sync").
			WithCause(err)
	}
	defer handle.Close()
	if err := handle.Sync(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to sync directory").
			WithCause(err)
	}
	return nil
}

// FileSyncAdapter flushes every dirty filesystem buffer, like sync(1).
type FileSyncAdapter struct{}

func NewFileSyncAdapter() FileSyncAdapter {
	return FileSyncAdapter{}
}

func (FileSyncAdapter) Sync() error {
	unix.Sync()
	return nil
}

var (
	_ ports.FileWriterPort = OutputFileAdapter{}
	_ ports.FileSyncPort   = FileSyncAdapter{}
)
