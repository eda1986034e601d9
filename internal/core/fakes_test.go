package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"repository-dist/internal/adapters"
	"repository-dist/internal/types"
	"repository-dist/tests/testutil"
)

// countingWorkspace wraps the real workspace adapter and records every
// acquisition and release.
type countingWorkspace struct {
	inner    *adapters.KeyWorkspaceAdapter
	acquired []string
	released []string
}

func (w *countingWorkspace) Acquire(ctx context.Context) (string, error) {
	path, err := w.inner.Acquire(ctx)
	if err == nil {
		w.acquired = append(w.acquired, path)
	}
	return path, err
}

func (w *countingWorkspace) Release(ctx context.Context, path string) {
	w.released = append(w.released, path)
	w.inner.Release(ctx, path)
}

type fixture struct {
	root      string
	key       testutil.TestKey
	other     testutil.TestKey
	paths     types.Paths
	gpg       *testutil.FakeGPG
	workspace *countingWorkspace
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	key := testutil.NewTestKey(t, "Vendor")
	paths := types.Paths{
		SourceKey:     testutil.WriteFile(t, root, "usr/share/repository-dist/vendor.asc", key.Armored),
		TargetKeyring: filepath.Join(root, "etc/apt/trusted.gpg.d/derivative.gpg"),
		LegacyKeyring: filepath.Join(root, "etc/apt/trusted.gpg"),
		SourcesList:   filepath.Join(root, "etc/apt/sources.list.d/derivative.list"),
		WorkspaceRoot: filepath.Join(root, "tmp"),
	}
	require.NoError(t, os.MkdirAll(paths.WorkspaceRoot, 0755))
	require.NoError(t, os.MkdirAll(filepath.Dir(paths.TargetKeyring), 0755))
	return &fixture{
		root:      root,
		key:       key,
		other:     testutil.NewTestKey(t, "Other"),
		paths:     paths,
		gpg:       testutil.NewFakeGPG(t),
		workspace: &countingWorkspace{inner: adapters.NewKeyWorkspaceAdapter(paths.WorkspaceRoot)},
	}
}

func (f *fixture) reconciler() KeyReconciler {
	return NewKeyReconciler(
		f.gpg,
		f.workspace,
		adapters.NewKeyringInspectorAdapter(),
		adapters.NewOutputFileAdapter(),
		f.paths,
		f.key.Fingerprint,
	)
}

// seedLegacy writes a shared keyring holding another owner's key and,
// optionally, the vendor key.
func (f *fixture) seedLegacy(t *testing.T, withVendor bool) {
	t.Helper()
	data := append([]byte{}, f.other.Binary...)
	if withVendor {
		data = append(data, f.key.Binary...)
	}
	require.NoError(t, os.WriteFile(f.paths.LegacyKeyring, data, 0644))
}

func (f *fixture) legacyFingerprints(t *testing.T) []string {
	t.Helper()
	return testutil.KeyringFingerprints(t, f.paths.LegacyKeyring)
}

func (f *fixture) targetFingerprints(t *testing.T) []string {
	t.Helper()
	return testutil.KeyringFingerprints(t, f.paths.TargetKeyring)
}

func (f *fixture) requireWorkspacesReleased(t *testing.T) {
	t.Helper()
	require.Equal(t, f.workspace.acquired, f.workspace.released)
	entries, err := os.ReadDir(f.paths.WorkspaceRoot)
	require.NoError(t, err)
	require.Empty(t, entries, "workspace directories left behind")
}
