package app

import (
	"context"
	"os"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repository-dist/internal/shared"
	"repository-dist/internal/types"
)

// Status reports the current trust state without modifying anything.
func (s Service) Status(ctx context.Context, cfg types.Config) (types.TrustStatus, error) {
	if err := validatePaths(cfg); err != nil {
		return types.TrustStatus{}, err
	}
	status := types.TrustStatus{
		LegacyKeyring: cfg.Paths.LegacyKeyring,
		SourceKey:     cfg.Paths.SourceKey,
		TargetKeyring: cfg.Paths.TargetKeyring,
		SourcesList:   cfg.Paths.SourcesList,
	}

	legacy, err := s.keyReconciler(cfg).Detector.IsLegacyPresent(ctx)
	if err != nil {
		return types.TrustStatus{}, err
	}
	status.LegacyEntryPresent = legacy
	status.SourceFingerprints = s.fingerprints(ctx, cfg.Paths.SourceKey)

	present, err := shared.FileExists(cfg.Paths.TargetKeyring)
	if err != nil {
		return types.TrustStatus{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to inspect target keyring").
			WithCause(err)
	}
	status.TargetPresent = present
	if present {
		status.TargetFingerprints = s.fingerprints(ctx, cfg.Paths.TargetKeyring)
		status.TargetCurrent = sameFingerprints(status.SourceFingerprints, status.TargetFingerprints)
	}

	listed, err := shared.FileExists(cfg.Paths.SourcesList)
	if err != nil {
		return types.TrustStatus{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to inspect sources list").
			WithCause(err)
	}
	status.SourcesListPresent = listed
	if listed && s.Sources != nil {
		entries, err := s.Sources.ReadRepositories(cfg.Paths.SourcesList)
		if err != nil {
			return types.TrustStatus{}, err
		}
		for _, entry := range entries {
			if entry.Type == "deb" {
				status.Repositories = append(status.Repositories, entry.String())
			}
		}
	}
	return status, nil
}

func (s Service) fingerprints(ctx context.Context, path string) []string {
	if s.Inspector == nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("key material unreadable")
		return nil
	}
	fingerprints, err := s.Inspector.Fingerprints(data)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("key material not parseable")
		return nil
	}
	return fingerprints
}

func sameFingerprints(want []string, got []string) bool {
	if len(want) == 0 || len(want) != len(got) {
		return false
	}
	a := append([]string(nil), want...)
	b := append([]string(nil), got...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
