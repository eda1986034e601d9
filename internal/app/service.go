package app

import (
	"repository-dist/internal/adapters"
	"repository-dist/internal/core"
	"repository-dist/internal/ports"
	"repository-dist/internal/types"
)

type Service struct {
	GPG       ports.GPGPort
	Workspace ports.KeyWorkspacePort
	Inspector ports.KeyringInspectorPort
	Files     ports.FileWriterPort
	FileSync  ports.FileSyncPort
	OSRelease ports.OSReleasePort
	Sources   ports.SourcesListReaderPort
}

func NewService(cfg types.Config) Service {
	return Service{
		GPG:       adapters.NewGPGCLIAdapter(cfg.GPGBinary),
		Workspace: adapters.NewKeyWorkspaceAdapter(cfg.Paths.WorkspaceRoot),
		Inspector: adapters.NewKeyringInspectorAdapter(),
		Files:     adapters.NewOutputFileAdapter(),
		FileSync:  adapters.NewFileSyncAdapter(),
		OSRelease: adapters.NewOSReleaseAdapter(),
		Sources:   adapters.NewSourcesListReaderAdapter(),
	}
}

func (s Service) keyReconciler(cfg types.Config) core.KeyReconciler {
	return core.NewKeyReconciler(s.GPG, s.Workspace, s.Inspector, s.Files, cfg.Paths, cfg.LegacyFingerprint)
}

func (s Service) sourcesList(cfg types.Config) core.SourcesListGenerator {
	return core.NewSourcesListGenerator(s.Files, cfg.Paths.SourcesList)
}
