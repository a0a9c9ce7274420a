// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Store
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, GroqAPIKey, "  gsk_abc123  \n")
				writeFile(t, dir, EmbeddingsAPIKey, "emb_xyz\n")
				return dir
			},
			want: Store{
				GroqAPIKey:       "gsk_abc123",
				EmbeddingsAPIKey: "emb_xyz",
			},
		},
		{
			name: "returns empty store for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Store{},
		},
		{
			name: "skips empty and whitespace-only files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, GroqAPIKey, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: Store{GroqAPIKey: "valid-key"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, GroqAPIKey, "gsk_real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Store{GroqAPIKey: "gsk_real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "value123", got["good-key"])
	assert.NotContains(t, got, "bad-key")
}

func TestResolve(t *testing.T) {
	s := Store{GroqAPIKey: "from-file"}

	t.Run("explicit wins", func(t *testing.T) {
		t.Setenv("TEST_GROQ_KEY", "from-env")
		assert.Equal(t, "explicit", s.Resolve(" explicit ", GroqAPIKey, "TEST_GROQ_KEY"))
	})

	t.Run("environment before file", func(t *testing.T) {
		t.Setenv("TEST_GROQ_KEY_A", "")
		t.Setenv("TEST_GROQ_KEY_B", "from-env")
		assert.Equal(t, "from-env", s.Resolve("", GroqAPIKey, "TEST_GROQ_KEY_A", "TEST_GROQ_KEY_B"))
	})

	t.Run("file as last resort", func(t *testing.T) {
		t.Setenv("TEST_GROQ_KEY", "")
		assert.Equal(t, "from-file", s.Resolve("", GroqAPIKey, "TEST_GROQ_KEY"))
	})

	t.Run("missing everywhere", func(t *testing.T) {
		assert.Empty(t, Store{}.Resolve("", GroqAPIKey))
	})
}

func TestNames(t *testing.T) {
	names := Store{"b": "2", "a": "1"}.Names()
	sort.Strings(names)
	assert.Equal(t, []string{"a", "b"}, names)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
