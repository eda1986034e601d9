package adapters

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repository-dist/tests/testutil"
)

func TestOSReleaseAdapter_Codename(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name: "debian",
			content: `PRETTY_NAME="Debian GNU/Linux 12 (bookworm)"
NAME="Debian GNU/Linux"
VERSION_ID="12"
VERSION_CODENAME=bookworm
ID=debian
`,
			expected: "bookworm",
		},
		{
			name: "derivative falls back to debian codename",
			content: `NAME="Derivative"
VERSION_CODENAME=
DEBIAN_CODENAME=trixie
`,
			expected: "trixie",
		},
		{
			name: "ubuntu codename",
			content: `NAME="Ubuntu"
UBUNTU_CODENAME=noble
`,
			expected: "noble",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), "os-release", []byte(tt.content))
			got, err := NewOSReleaseAdapter().Codename(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestOSReleaseAdapter_Errors(t *testing.T) {
	adapter := NewOSReleaseAdapter()

	_, err := adapter.Codename("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "os-release path is empty")

	_, err = adapter.Codename(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read os-release")

	path := testutil.WriteFile(t, t.TempDir(), "os-release", []byte("NAME=\"Nothing\"\n"))
	_, err = adapter.Codename(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not declare a codename")
}
