package ports

import "context"

// KeyWorkspacePort hands out throwaway GnuPG home directories. A
// workspace is used for exactly one logical gpg operation and released
// before the operation returns.
type KeyWorkspacePort interface {
	// Acquire creates a fresh owner-only directory, removing any stale
	// directory at the chosen path first.
	Acquire(ctx context.Context) (string, error)

	// Release removes the directory. Failures are logged, never returned.
	Release(ctx context.Context, path string)
}
