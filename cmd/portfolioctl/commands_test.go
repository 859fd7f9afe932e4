package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/techxplorers/portfolio/internal/adapter/driven/localauth"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// withOperatorEnv points the CLI at a fresh SQLite file with a local
// operator whose password is "secret".
func withOperatorEnv(t *testing.T) {
	t.Helper()
	hash, err := localauth.HashPassword("secret")
	require.NoError(t, err)

	t.Setenv("PORTFOLIO_DB_PATH", filepath.Join(t.TempDir(), "portfolio.db"))
	t.Setenv("PORTFOLIO_STORE", "sqlite")
	t.Setenv("PORTFOLIO_AUTH", "local")
	t.Setenv("PORTFOLIO_OPERATOR_EMAIL", "ops@example.com")
	t.Setenv("PORTFOLIO_OPERATOR_PASSWORD_HASH", hash)
	t.Setenv("PORTFOLIO_SECRET_KEY", strings.Repeat("ab", 32))
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "argument", args: []string{"hash-password", "s3cret"}},
		{name: "stdin", stdin: "s3cret\n", args: []string{"hash-password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.stdin, tt.args...)

			require.NoError(t, err)
			hash := strings.TrimSpace(out)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
		})
	}
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := execute(t, "", "hash-password")
	require.Error(t, err)
}

func TestSeedThenList(t *testing.T) {
	withOperatorEnv(t)

	out, err := execute(t, "", "seed", "--email", "ops@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Database seeded: 6 services created.")

	out, err = execute(t, "", "list")
	require.NoError(t, err)

	var listed []listedService
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 6)
	for _, s := range listed {
		assert.NotEmpty(t, s.ID)
		assert.NotNil(t, s.Features)
	}
	assert.Equal(t, "engineering", listed[0].Category, "engineering sorts before identity")
}

func TestSeed_WrongPassword(t *testing.T) {
	withOperatorEnv(t)

	_, err := execute(t, "", "seed", "--email", "ops@example.com", "--password", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or password")

	out, err := execute(t, "", "list")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestSeed_FromFile(t *testing.T) {
	withOperatorEnv(t)

	path := filepath.Join(t.TempDir(), "services.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`services:
  - title: "Exam<br>Support."
    description: "Certification prep."
    category: engineering
    icon: Award
    features: [PMP, AWS]
`), 0o600))

	out, err := execute(t, "", "seed", "--email", "ops@example.com", "--password", "secret", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Database seeded: 1 services created.")
}

func TestSeed_RequiresFlags(t *testing.T) {
	_, err := execute(t, "", "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}
