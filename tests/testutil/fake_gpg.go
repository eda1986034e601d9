package testutil

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/openpgp" //nolint:staticcheck // test double for gpg
)

const fakePubring = "pubring.fake"

// FakeGPG mimics the subset of gpg behaviour the reconciler relies on,
// using a flat file inside the workspace as the isolated keyring.
type FakeGPG struct {
	T         *testing.T
	Calls     []string
	Homes     []string
	ImportErr error
	ExportErr error
	ListErr   error
	DeleteErr error
	// ExportOverride replaces the exported bytes when set.
	ExportOverride []byte
	LastExport     []byte
}

func NewFakeGPG(t *testing.T) *FakeGPG {
	return &FakeGPG{T: t}
}

func (f *FakeGPG) record(call string, home string) {
	f.Calls = append(f.Calls, call)
	f.Homes = append(f.Homes, home)
	require.DirExists(f.T, home, "gpg must run inside an acquired workspace")
}

func (f *FakeGPG) Import(_ context.Context, home string, keyFile string) error {
	f.record("import", home)
	if f.ImportErr != nil {
		return f.ImportErr
	}
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return err
	}
	entities, err := ReadEntities(data)
	if err != nil {
		return err
	}
	handle, err := os.OpenFile(filepath.Join(home, fakePubring), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer handle.Close()
	for _, entity := range entities {
		if err := entity.Serialize(handle); err != nil {
			return err
		}
	}
	return nil
}

func (f *FakeGPG) Export(_ context.Context, home string) ([]byte, error) {
	f.record("export", home)
	if f.ExportErr != nil {
		return nil, f.ExportErr
	}
	if f.ExportOverride != nil {
		return f.ExportOverride, nil
	}
	data, err := os.ReadFile(filepath.Join(home, fakePubring))
	f.LastExport = data
	return data, err
}

func (f *FakeGPG) ListFingerprints(_ context.Context, home string, keyring string) ([]string, error) {
	f.record("list", home)
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	data, err := os.ReadFile(keyring)
	if err != nil {
		return nil, err
	}
	return fingerprintsOf(data)
}

func (f *FakeGPG) DeleteKey(_ context.Context, home string, keyring string, fingerprint string) error {
	f.record("delete", home)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	data, err := os.ReadFile(keyring)
	if err != nil {
		return err
	}
	entities, err := ReadEntities(data)
	if err != nil {
		return err
	}
	want := strings.ToUpper(strings.Join(strings.Fields(fingerprint), ""))
	var kept bytes.Buffer
	found := false
	for _, entity := range entities {
		if fingerprintOf(entity) == want {
			found = true
			continue
		}
		if err := entity.Serialize(&kept); err != nil {
			return err
		}
	}
	if !found {
		return errors.New("key not found")
	}
	return os.WriteFile(keyring, kept.Bytes(), 0644)
}

// ReadEntities parses binary or armored key material. Empty input yields
// no entities.
func ReadEntities(data []byte) (openpgp.EntityList, error) {
	entities, err := openpgp.ReadKeyRing(bytes.NewReader(data))
	if err == nil && len(entities) > 0 {
		return entities, nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
}

// KeyringFingerprints returns the fingerprints stored in the keyring file
// at path.
func KeyringFingerprints(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	fingerprints, err := fingerprintsOf(data)
	require.NoError(t, err)
	return fingerprints
}

func fingerprintsOf(data []byte) ([]string, error) {
	entities, err := ReadEntities(data)
	if err != nil {
		return nil, err
	}
	var fingerprints []string
	for _, entity := range entities {
		fingerprints = append(fingerprints, fingerprintOf(entity))
	}
	return fingerprints, nil
}

func fingerprintOf(entity *openpgp.Entity) string {
	return strings.ToUpper(hex.EncodeToString(entity.PrimaryKey.Fingerprint[:]))
}
