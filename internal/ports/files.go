package ports

import "os"

// FileWriterPort replaces whole files. Implementations must never leave
// a partially written file at path.
type FileWriterPort interface {
	WriteFile(path string, data []byte, perm os.FileMode) error
}

// FileSyncPort flushes pending filesystem writes to stable storage.
type FileSyncPort interface {
	Sync() error
}
