package core

import (
	"context"

	"repository-dist/internal/ports"
)

// withWorkspace runs fn inside a freshly acquired key workspace and
// releases it on every exit path.
func withWorkspace(ctx context.Context, workspace ports.KeyWorkspacePort, fn func(home string) error) error {
	home, err := workspace.Acquire(ctx)
	if err != nil {
		return err
	}
	defer workspace.Release(ctx, home)
	return fn(home)
}
