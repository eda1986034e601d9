package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repository-dist/internal/ports"
)

const workspacePrefix = "repository-dist"

// KeyWorkspaceAdapter creates GnuPG home directories under Root. Paths
// are namespaced by process id so concurrent invocations never share a
// workspace.
type KeyWorkspaceAdapter struct {
	Root string
	seq  int
}

func NewKeyWorkspaceAdapter(root string) *KeyWorkspaceAdapter {
	return &KeyWorkspaceAdapter{Root: root}
}

func (a *KeyWorkspaceAdapter) Acquire(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	root := strings.TrimSpace(a.Root)
	if root == "" {
		root = os.TempDir()
	}
	a.seq++
	path := filepath.Join(root, fmt.Sprintf("%s.%d.%d", workspacePrefix, os.Getpid(), a.seq))
	if err := os.RemoveAll(path); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove stale key workspace").
			WithCause(err)
	}
	if err := os.Mkdir(path, 0700); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create key workspace").
			WithCause(err)
	}
	// Mkdir is subject to the umask.
	if err := os.Chmod(path, 0700); err != nil {
		_ = os.RemoveAll(path)
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to restrict key workspace permissions").
			WithCause(err)
	}
	log.Ctx(ctx).Debug().Str("workspace", path).Msg("key workspace acquired")
	return path, nil
}

func (a *KeyWorkspaceAdapter) Release(ctx context.Context, path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	// The workspace holds only copies of public key material outside the
	// trust store; a leftover directory is harmless.
	if err := os.RemoveAll(path); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("workspace", path).Msg("failed to remove key workspace")
		return
	}
	log.Ctx(ctx).Debug().Str("workspace", path).Msg("key workspace released")
}

var _ ports.KeyWorkspacePort = (*KeyWorkspaceAdapter)(nil)
