package types

import "strings"

// RepositoryEntry is one active line of a one-line-style APT sources list.
type RepositoryEntry struct {
	Type       string   `yaml:"type"`
	Options    []string `yaml:"options,omitempty"`
	URI        string   `yaml:"uri"`
	Suite      string   `yaml:"suite"`
	Components []string `yaml:"components"`
}

func (e RepositoryEntry) String() string {
	parts := []string{e.Type}
	if len(e.Options) > 0 {
		parts = append(parts, "["+strings.Join(e.Options, " ")+"]")
	}
	parts = append(parts, e.URI, e.Suite)
	parts = append(parts, e.Components...)
	return strings.Join(parts, " ")
}
