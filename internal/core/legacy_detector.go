package core

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repository-dist/internal/ports"
	"repository-dist/internal/shared"
)

// LegacyDetector reports whether the vendor key still lives in the shared,
// deprecated system keyring. It never modifies any keyring.
type LegacyDetector struct {
	GPG         ports.GPGPort
	Workspace   ports.KeyWorkspacePort
	Keyring     string
	Fingerprint string
}

func NewLegacyDetector(gpg ports.GPGPort, workspace ports.KeyWorkspacePort, keyring string, fingerprint string) LegacyDetector {
	return LegacyDetector{
		GPG:         gpg,
		Workspace:   workspace,
		Keyring:     keyring,
		Fingerprint: fingerprint,
	}
}

func (d LegacyDetector) IsLegacyPresent(ctx context.Context) (bool, error) {
	if d.GPG == nil || d.Workspace == nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("legacy detector requires gpg and workspace ports")
	}
	want := shared.NormalizeFingerprint(d.Fingerprint)
	if want == "" || strings.TrimSpace(d.Keyring) == "" {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("legacy keyring and fingerprint must be set")
	}
	populated, err := shared.NonEmptyFile(d.Keyring)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to inspect legacy keyring").
			WithCause(err)
	}
	if !populated {
		log.Ctx(ctx).Debug().Str("keyring", d.Keyring).Msg("legacy keyring absent or empty")
		return false, nil
	}

	var fingerprints []string
	err = withWorkspace(ctx, d.Workspace, func(home string) error {
		listed, listErr := d.GPG.ListFingerprints(ctx, home, d.Keyring)
		fingerprints = listed
		return listErr
	})
	if err != nil {
		return false, err
	}
	for _, fingerprint := range fingerprints {
		if shared.NormalizeFingerprint(fingerprint) == want {
			log.Ctx(ctx).Debug().Str("keyring", d.Keyring).Str("fingerprint", want).Msg("legacy key entry found")
			return true, nil
		}
	}
	return false, nil
}
