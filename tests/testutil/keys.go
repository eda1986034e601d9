package testutil

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/openpgp"        //nolint:staticcheck // test key generation
	"golang.org/x/crypto/openpgp/armor" //nolint:staticcheck // test key generation
)

// TestKey is a freshly generated OpenPGP public key.
type TestKey struct {
	Fingerprint string
	Binary      []byte
	Armored     []byte
}

// NewTestKey generates an RSA key pair and returns its public half in
// both binary and ASCII-armored form.
func NewTestKey(t *testing.T, name string) TestKey {
	t.Helper()
	entity, err := openpgp.NewEntity(name, "test", strings.ToLower(name)+"@example.invalid", nil)
	require.NoError(t, err)

	var binary bytes.Buffer
	require.NoError(t, entity.Serialize(&binary))

	var armored bytes.Buffer
	writer, err := armor.Encode(&armored, openpgp.PublicKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.Serialize(writer))
	require.NoError(t, writer.Close())

	return TestKey{
		Fingerprint: strings.ToUpper(hex.EncodeToString(entity.PrimaryKey.Fingerprint[:])),
		Binary:      binary.Bytes(),
		Armored:     armored.Bytes(),
	}
}

// WriteFile writes data below dir and returns the full path.
func WriteFile(t *testing.T, dir string, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}
