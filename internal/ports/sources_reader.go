package ports

import "repository-dist/internal/types"

type SourcesListReaderPort interface {
	ReadRepositories(path string) ([]types.RepositoryEntry, error)
}
