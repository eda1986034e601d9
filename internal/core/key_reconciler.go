package core

import (
	"context"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repository-dist/internal/ports"
	"repository-dist/internal/shared"
	"repository-dist/internal/types"
)

// KeyReconciler moves the host's trust material for the vendor key
// between the legacy shared keyring, the tool-owned target keyring and
// nothing at all.
type KeyReconciler struct {
	GPG               ports.GPGPort
	Workspace         ports.KeyWorkspacePort
	Inspector         ports.KeyringInspectorPort
	Files             ports.FileWriterPort
	Detector          LegacyDetector
	Paths             types.Paths
	LegacyFingerprint string
}

func NewKeyReconciler(
	gpg ports.GPGPort,
	workspace ports.KeyWorkspacePort,
	inspector ports.KeyringInspectorPort,
	files ports.FileWriterPort,
	paths types.Paths,
	legacyFingerprint string,
) KeyReconciler {
	return KeyReconciler{
		GPG:               gpg,
		Workspace:         workspace,
		Inspector:         inspector,
		Files:             files,
		Detector:          NewLegacyDetector(gpg, workspace, paths.LegacyKeyring, legacyFingerprint),
		Paths:             paths,
		LegacyFingerprint: legacyFingerprint,
	}
}

// RemoveLegacy deletes the legacy fingerprint from the shared keyring.
// It never fails: the entry may already be gone, the file may be
// read-only, or another tool may have rewritten it.
func (r KeyReconciler) RemoveLegacy(ctx context.Context) {
	logger := log.Ctx(ctx)
	present, err := shared.NonEmptyFile(r.Paths.LegacyKeyring)
	if err != nil || !present {
		// gpg would create the keyring file if it were missing.
		logger.Debug().Str("keyring", r.Paths.LegacyKeyring).Msg("legacy keyring absent, nothing to remove")
		return
	}
	err = withWorkspace(ctx, r.Workspace, func(home string) error {
		return r.GPG.DeleteKey(ctx, home, r.Paths.LegacyKeyring, r.LegacyFingerprint)
	})
	if err != nil {
		logger.Debug().Err(err).Str("fingerprint", r.LegacyFingerprint).Msg("legacy key removal skipped")
		return
	}
	logger.Info().Str("keyring", r.Paths.LegacyKeyring).Str("fingerprint", r.LegacyFingerprint).Msg("legacy key entry removed")
}

// AddKeys purges a legacy entry of the vendor key and replaces the target
// keyring with the gpg export of the source key. The previous content is
// never merged.
func (r KeyReconciler) AddKeys(ctx context.Context) error {
	if err := r.validate(); err != nil {
		return err
	}
	if err := r.requireSource(); err != nil {
		return err
	}
	if _, err := r.purgeLegacy(ctx); err != nil {
		return err
	}
	return r.installTarget(ctx)
}

// purgeLegacy rechecks the legacy keyring and removes the vendor entry
// when it is present. It reports whether an entry was found.
func (r KeyReconciler) purgeLegacy(ctx context.Context) (bool, error) {
	legacy, err := r.Detector.IsLegacyPresent(ctx)
	if err != nil {
		return false, err
	}
	if legacy {
		r.RemoveLegacy(ctx)
	}
	return legacy, nil
}

func (r KeyReconciler) requireSource() error {
	available, err := shared.NonEmptyFile(r.Paths.SourceKey)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to inspect source key").
			WithCause(err)
	}
	if !available {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("source key not found: " + r.Paths.SourceKey)
	}
	return nil
}

func (r KeyReconciler) installTarget(ctx context.Context) error {
	if err := r.requireSource(); err != nil {
		return err
	}
	source := r.Paths.SourceKey
	var exported []byte
	err := withWorkspace(ctx, r.Workspace, func(home string) error {
		if importErr := r.GPG.Import(ctx, home, source); importErr != nil {
			return importErr
		}
		data, exportErr := r.GPG.Export(ctx, home)
		exported = data
		return exportErr
	})
	if err != nil {
		return err
	}
	if len(exported) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("exported keyring is empty")
	}
	if err := r.checkExport(ctx, source, exported); err != nil {
		return err
	}

	target := r.Paths.TargetKeyring
	if err := r.Files.WriteFile(target, exported, 0644); err != nil {
		return err
	}
	if written, _ := shared.NonEmptyFile(target); !written {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("target keyring missing after write: " + target)
	}
	log.Ctx(ctx).Info().Str("keyring", target).Msg("target keyring written")
	return nil
}

// RemoveKeys purges the legacy entry when present and deletes the target
// keyring. Absent material is not an error.
func (r KeyReconciler) RemoveKeys(ctx context.Context) error {
	if err := r.validate(); err != nil {
		return err
	}
	if _, err := r.purgeLegacy(ctx); err != nil {
		return err
	}

	target := r.Paths.TargetKeyring
	exists, err := shared.FileExists(target)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to inspect target keyring").
			WithCause(err)
	}
	if !exists {
		log.Ctx(ctx).Debug().Str("keyring", target).Msg("target keyring already absent")
		return nil
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove target keyring").
			WithCause(err)
	}
	if still, _ := shared.FileExists(target); still {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("target keyring still present after removal: " + target)
	}
	log.Ctx(ctx).Info().Str("keyring", target).Msg("target keyring removed")
	return nil
}

// RefreshKeys re-exports the source key into the target keyring when the
// host already trusts the vendor, either through the target keyring or
// through the legacy entry. A host that trusts neither is left untouched.
func (r KeyReconciler) RefreshKeys(ctx context.Context) error {
	if err := r.validate(); err != nil {
		return err
	}
	readd, err := r.purgeLegacy(ctx)
	if err != nil {
		return err
	}
	exists, err := shared.FileExists(r.Paths.TargetKeyring)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to inspect target keyring").
			WithCause(err)
	}
	if !exists && !readd {
		log.Ctx(ctx).Info().Msg("vendor key not trusted on this host, refresh skipped")
		return nil
	}
	if readd {
		log.Ctx(ctx).Info().Msg("migrating vendor key from legacy keyring")
	}
	return r.installTarget(ctx)
}

// checkExport confirms that every source key made it into the export.
// Key types the native parser cannot read are left to gpg.
func (r KeyReconciler) checkExport(ctx context.Context, source string, exported []byte) error {
	if r.Inspector == nil {
		return nil
	}
	sourceData, err := os.ReadFile(source)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read source key").
			WithCause(err)
	}
	want, err := r.Inspector.Fingerprints(sourceData)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("source key not parseable natively, skipping export check")
		return nil
	}
	got, err := r.Inspector.Fingerprints(exported)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("exported keyring not parseable natively, skipping export check")
		return nil
	}
	have := make(map[string]struct{}, len(got))
	for _, fingerprint := range got {
		have[shared.NormalizeFingerprint(fingerprint)] = struct{}{}
	}
	for _, fingerprint := range want {
		if _, ok := have[shared.NormalizeFingerprint(fingerprint)]; !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("exported keyring is missing source key " + fingerprint)
		}
	}
	return nil
}

func (r KeyReconciler) validate() error {
	if r.GPG == nil || r.Workspace == nil || r.Files == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("key reconciler requires gpg, workspace and file ports")
	}
	if strings.TrimSpace(r.Paths.TargetKeyring) == "" || strings.TrimSpace(r.Paths.SourceKey) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("source key and target keyring paths must be set")
	}
	return nil
}
