package adapters

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repository-dist/internal/ports"
	"repository-dist/internal/shared"
)

// GPGCLIAdapter shells out to gpg. Every invocation pins --homedir so the
// invoking user's keyring and configuration are never read.
type GPGCLIAdapter struct {
	Binary string
}

func NewGPGCLIAdapter(binary string) GPGCLIAdapter {
	if strings.TrimSpace(binary) == "" {
		binary = "gpg"
	}
	return GPGCLIAdapter{Binary: binary}
}

func (a GPGCLIAdapter) Import(ctx context.Context, home string, keyFile string) error {
	if strings.TrimSpace(keyFile) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("key file is empty")
	}
	if _, err := a.run(ctx, home, "--import", keyFile); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("gpg key import failed").
			WithCause(err)
	}
	return nil
}

func (a GPGCLIAdapter) Export(ctx context.Context, home string) ([]byte, error) {
	out, err := a.run(ctx, home, "--export")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("gpg key export failed").
			WithCause(err)
	}
	if len(out) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("gpg key export produced no key material")
	}
	return out, nil
}

func (a GPGCLIAdapter) ListFingerprints(ctx context.Context, home string, keyring string) ([]string, error) {
	if strings.TrimSpace(keyring) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("keyring path is empty")
	}
	out, err := a.run(ctx, home,
		"--no-default-keyring",
		"--keyring", keyring,
		"--keyid-format", "long",
		"--with-colons",
		"--fingerprint",
		"--list-keys",
	)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("gpg key listing failed").
			WithCause(err)
	}
	return parseColonFingerprints(out), nil
}

func (a GPGCLIAdapter) DeleteKey(ctx context.Context, home string, keyring string, fingerprint string) error {
	if strings.TrimSpace(keyring) == "" || strings.TrimSpace(fingerprint) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("keyring and fingerprint are required for key deletion")
	}
	if _, err := a.run(ctx, home,
		"--yes",
		"--no-default-keyring",
		"--keyring", keyring,
		"--delete-keys", shared.NormalizeFingerprint(fingerprint),
	); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("gpg key deletion failed").
			WithCause(err)
	}
	return nil
}

func (a GPGCLIAdapter) run(ctx context.Context, home string, args ...string) ([]byte, error) {
	if strings.TrimSpace(home) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("gpg home directory is empty")
	}
	full := append([]string{"--batch", "--no-tty", "--no-options", "--homedir", home}, args...)
	log.Ctx(ctx).Debug().Str("binary", a.Binary).Strs("args", full).Msg("running gpg")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.Binary, full...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, shared.CommandError(stderr.Bytes(), err)
	}
	return stdout.Bytes(), nil
}

// parseColonFingerprints returns the primary key fingerprints from
// gpg --with-colons output. Subkey fingerprints are skipped.
func parseColonFingerprints(out []byte) []string {
	var fingerprints []string
	previous := ""
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ":")
		record := fields[0]
		if record == "fpr" && previous == "pub" && len(fields) > 9 {
			fingerprints = append(fingerprints, shared.NormalizeFingerprint(fields[9]))
		}
		if record != "fpr" {
			previous = record
		}
	}
	return fingerprints
}

var _ ports.GPGPort = GPGCLIAdapter{}
