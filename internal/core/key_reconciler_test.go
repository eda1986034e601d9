package core

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repository-dist/internal/adapters"
	"repository-dist/tests/testutil"
)

func TestAddKeys_WritesExportOfSourceKey(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.reconciler().AddKeys(context.Background()))

	data, err := os.ReadFile(f.paths.TargetKeyring)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, f.gpg.LastExport, data, "target keyring must be the gpg export of the source key")
	assert.Equal(t, []string{f.key.Fingerprint}, f.targetFingerprints(t))

	info, err := os.Stat(f.paths.TargetKeyring)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	assert.Equal(t, []string{"import", "export"}, f.gpg.Calls)
	assert.Len(t, f.workspace.acquired, 1, "import and export share one workspace")
	assert.Equal(t, f.gpg.Homes[0], f.gpg.Homes[1])
	f.requireWorkspacesReleased(t)
}

func TestAddKeys_RoundTripMatchesSourceKey(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.reconciler().AddKeys(context.Background()))

	inspector := adapters.NewKeyringInspectorAdapter()
	target, err := os.ReadFile(f.paths.TargetKeyring)
	require.NoError(t, err)
	source, err := os.ReadFile(f.paths.SourceKey)
	require.NoError(t, err)

	fromTarget, err := inspector.Fingerprints(target)
	require.NoError(t, err)
	fromSource, err := inspector.Fingerprints(source)
	require.NoError(t, err)
	if diff := cmp.Diff(fromSource, fromTarget); diff != "" {
		t.Fatalf("round trip mismatch (-source +target):\n%s", diff)
	}
}

func TestAddKeys_Idempotent(t *testing.T) {
	f := newFixture(t)
	reconciler := f.reconciler()
	require.NoError(t, reconciler.AddKeys(context.Background()))
	first, err := os.ReadFile(f.paths.TargetKeyring)
	require.NoError(t, err)

	require.NoError(t, reconciler.AddKeys(context.Background()))
	second, err := os.ReadFile(f.paths.TargetKeyring)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAddKeys_ReplacesStaleContent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.paths.TargetKeyring, f.other.Binary, 0644))

	require.NoError(t, f.reconciler().AddKeys(context.Background()))
	assert.Equal(t, []string{f.key.Fingerprint}, f.targetFingerprints(t), "stale keys must not be merged")
}

func TestAddKeys_MissingSourceKey(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(f.paths.SourceKey))

	err := f.reconciler().AddKeys(context.Background())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.NoFileExists(t, f.paths.TargetKeyring)
	assert.Empty(t, f.gpg.Calls)
}

func TestAddKeys_ImportFailurePropagates(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.paths.TargetKeyring, f.other.Binary, 0644))
	f.gpg.ImportErr = errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("gpg key import failed")

	err := f.reconciler().AddKeys(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gpg key import failed")
	assert.Equal(t, []string{"import"}, f.gpg.Calls)
	f.requireWorkspacesReleased(t)

	data, err := os.ReadFile(f.paths.TargetKeyring)
	require.NoError(t, err)
	assert.Equal(t, f.other.Binary, data, "failed import must leave the target untouched")
}

func TestAddKeys_ExportFailurePropagates(t *testing.T) {
	f := newFixture(t)
	f.gpg.ExportErr = errors.New("export failed")

	err := f.reconciler().AddKeys(context.Background())
	require.Error(t, err)
	assert.NoFileExists(t, f.paths.TargetKeyring)
	f.requireWorkspacesReleased(t)
}

func TestAddKeys_EmptyExportFails(t *testing.T) {
	f := newFixture(t)
	f.gpg.ExportOverride = []byte{}

	err := f.reconciler().AddKeys(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exported keyring is empty")
	assert.NoFileExists(t, f.paths.TargetKeyring)
}

func TestAddKeys_ExportMissingSourceKeyFails(t *testing.T) {
	f := newFixture(t)
	f.gpg.ExportOverride = f.other.Binary

	err := f.reconciler().AddKeys(context.Background())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.NoFileExists(t, f.paths.TargetKeyring)
}

func TestAddKeys_PurgesLegacyEntry(t *testing.T) {
	f := newFixture(t)
	f.seedLegacy(t, true)

	require.NoError(t, f.reconciler().AddKeys(context.Background()))
	assert.Equal(t, []string{f.other.Fingerprint}, f.legacyFingerprints(t))
	assert.Equal(t, []string{f.key.Fingerprint}, f.targetFingerprints(t))
	assert.Equal(t, []string{"list", "delete", "import", "export"}, f.gpg.Calls)
	f.requireWorkspacesReleased(t)
}

func TestAddKeys_MissingSourceKeepsLegacyEntry(t *testing.T) {
	f := newFixture(t)
	f.seedLegacy(t, true)
	require.NoError(t, os.Remove(f.paths.SourceKey))

	err := f.reconciler().AddKeys(context.Background())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Equal(t, []string{f.other.Fingerprint, f.key.Fingerprint}, f.legacyFingerprints(t))
	assert.Empty(t, f.gpg.Calls)
}

func TestAddKeys_LegacyListFailureAborts(t *testing.T) {
	f := newFixture(t)
	f.seedLegacy(t, true)
	f.gpg.ListErr = errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("gpg key listing failed")

	err := f.reconciler().AddKeys(context.Background())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
	assert.NoFileExists(t, f.paths.TargetKeyring)
	assert.Equal(t, []string{"list"}, f.gpg.Calls)
}

func TestRemoveKeys_NothingToRemove(t *testing.T) {
	f := newFixture(t)
	before := testutil.SnapshotTree(t, f.root)

	require.NoError(t, f.reconciler().RemoveKeys(context.Background()))
	if diff := cmp.Diff(before, testutil.SnapshotTree(t, f.root)); diff != "" {
		t.Fatalf("filesystem changed (-before +after):\n%s", diff)
	}
	assert.Empty(t, f.gpg.Calls)
}

func TestRemoveKeys_DeletesTargetKeyring(t *testing.T) {
	f := newFixture(t)
	reconciler := f.reconciler()
	require.NoError(t, reconciler.AddKeys(context.Background()))

	require.NoError(t, reconciler.RemoveKeys(context.Background()))
	assert.NoFileExists(t, f.paths.TargetKeyring)
	f.requireWorkspacesReleased(t)
}

func TestRemoveKeys_PurgesLegacyEntryOnly(t *testing.T) {
	f := newFixture(t)
	f.seedLegacy(t, true)

	require.NoError(t, f.reconciler().RemoveKeys(context.Background()))
	assert.FileExists(t, f.paths.LegacyKeyring, "the shared keyring is never deleted")
	assert.Equal(t, []string{f.other.Fingerprint}, f.legacyFingerprints(t))
	assert.Equal(t, []string{"list", "delete"}, f.gpg.Calls)
	f.requireWorkspacesReleased(t)
}

func TestRemoveKeys_DetectorFailureAborts(t *testing.T) {
	f := newFixture(t)
	f.seedLegacy(t, true)
	require.NoError(t, os.WriteFile(f.paths.TargetKeyring, f.key.Binary, 0644))
	f.gpg.ListErr = errors.New("unreadable keyring")

	err := f.reconciler().RemoveKeys(context.Background())
	require.Error(t, err)
	assert.FileExists(t, f.paths.TargetKeyring)
}

func TestRemoveLegacy_SwallowsFailures(t *testing.T) {
	f := newFixture(t)
	f.seedLegacy(t, true)
	f.gpg.DeleteErr = errors.New("read-only file system")

	assert.NotPanics(t, func() { f.reconciler().RemoveLegacy(context.Background()) })
	assert.Equal(t, []string{"delete"}, f.gpg.Calls)
	f.requireWorkspacesReleased(t)
}

func TestRemoveLegacy_EntryAlreadyGone(t *testing.T) {
	f := newFixture(t)
	f.seedLegacy(t, false)

	f.reconciler().RemoveLegacy(context.Background())
	assert.Equal(t, []string{f.other.Fingerprint}, f.legacyFingerprints(t))
}

func TestRemoveLegacy_AbsentKeyringNotCreated(t *testing.T) {
	f := newFixture(t)
	f.reconciler().RemoveLegacy(context.Background())
	assert.NoFileExists(t, f.paths.LegacyKeyring)
	assert.Empty(t, f.gpg.Calls)
}

func TestRefreshKeys_MigratesLegacyOnlyHost(t *testing.T) {
	f := newFixture(t)
	f.seedLegacy(t, true)

	require.NoError(t, f.reconciler().RefreshKeys(context.Background()))
	assert.Equal(t, []string{f.other.Fingerprint}, f.legacyFingerprints(t))
	assert.Equal(t, []string{f.key.Fingerprint}, f.targetFingerprints(t))
	assert.Equal(t, []string{"list", "delete", "import", "export"}, f.gpg.Calls)
	f.requireWorkspacesReleased(t)
}

func TestRefreshKeys_UntrustedHostIsNoOp(t *testing.T) {
	f := newFixture(t)
	before := testutil.SnapshotTree(t, f.root)

	require.NoError(t, f.reconciler().RefreshKeys(context.Background()))
	if diff := cmp.Diff(before, testutil.SnapshotTree(t, f.root)); diff != "" {
		t.Fatalf("filesystem changed (-before +after):\n%s", diff)
	}
	assert.Empty(t, f.gpg.Calls)
}

func TestRefreshKeys_UntrustedHostWithUnrelatedLegacyKeyring(t *testing.T) {
	f := newFixture(t)
	f.seedLegacy(t, false)
	before := testutil.SnapshotTree(t, f.root)

	require.NoError(t, f.reconciler().RefreshKeys(context.Background()))
	if diff := cmp.Diff(before, testutil.SnapshotTree(t, f.root)); diff != "" {
		t.Fatalf("filesystem changed (-before +after):\n%s", diff)
	}
	assert.Equal(t, []string{"list"}, f.gpg.Calls)
}

func TestRefreshKeys_RotatesExistingTarget(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.paths.TargetKeyring, f.other.Binary, 0644))

	require.NoError(t, f.reconciler().RefreshKeys(context.Background()))
	assert.Equal(t, []string{f.key.Fingerprint}, f.targetFingerprints(t))
}

func TestKeyReconciler_RequiresPorts(t *testing.T) {
	err := KeyReconciler{}.AddKeys(context.Background())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
