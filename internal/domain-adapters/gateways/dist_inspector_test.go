package gateways

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0750))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0600))
	}
}

func TestDistInspector_Inspect(t *testing.T) {
	tests := []struct {
		name      string
		files     []string
		wantWheel string
		wantSDist string
	}{
		{
			name:      "wheel only",
			files:     []string{"pkg-1.0-py3-none-any.whl"},
			wantWheel: "pkg-1.0-py3-none-any.whl",
		},
		{
			name:      "wheel and sdist",
			files:     []string{"pkg-1.0-py3-none-any.whl", "pkg-1.0.tar.gz"},
			wantWheel: "pkg-1.0-py3-none-any.whl",
			wantSDist: "pkg-1.0.tar.gz",
		},
		{
			name:  "unrelated files",
			files: []string{"README.md", "pkg-1.0.zip", "pkg-1.0.tar.gz.sha256"},
		},
		{
			name:      "first match in lexical order",
			files:     []string{"b-2.0.tar.gz", "a-1.0.tar.gz", "z.whl", "m.whl"},
			wantWheel: "m.whl",
			wantSDist: "a-1.0.tar.gz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			distDir := filepath.Join(t.TempDir(), "dist")
			writeFiles(t, distDir, tt.files...)

			dist, err := NewDistInspector().Inspect(context.Background(), distDir)
			require.NoError(t, err)
			assert.True(t, dist.DirExists)
			assert.Equal(t, distDir, dist.Dir)

			if tt.wantWheel == "" {
				assert.Nil(t, dist.Wheel)
			} else {
				require.NotNil(t, dist.Wheel)
				assert.Equal(t, tt.wantWheel, dist.Wheel.File)
				assert.Equal(t, filepath.Join(distDir, tt.wantWheel), dist.Wheel.Path)
			}

			if tt.wantSDist == "" {
				assert.Nil(t, dist.SDist)
			} else {
				require.NotNil(t, dist.SDist)
				assert.Equal(t, tt.wantSDist, dist.SDist.File)
			}
		})
	}
}

func TestDistInspector_IgnoresSubdirectories(t *testing.T) {
	distDir := filepath.Join(t.TempDir(), "dist")
	require.NoError(t, os.MkdirAll(filepath.Join(distDir, "nested.whl"), 0750))
	writeFiles(t, filepath.Join(distDir, "sub"), "pkg-1.0.tar.gz")

	dist, err := NewDistInspector().Inspect(context.Background(), distDir)
	require.NoError(t, err)
	assert.True(t, dist.DirExists)
	assert.False(t, dist.HasWheel())
	assert.False(t, dist.HasSDist())
}

func TestDistInspector_MissingDirectory(t *testing.T) {
	distDir := filepath.Join(t.TempDir(), "dist")

	dist, err := NewDistInspector().Inspect(context.Background(), distDir)
	require.NoError(t, err)
	assert.False(t, dist.DirExists)
	assert.Equal(t, distDir, dist.Dir)
}

func TestDistInspector_PathIsAFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "dist")

	dist, err := NewDistInspector().Inspect(context.Background(), filepath.Join(tmpDir, "dist"))
	require.NoError(t, err)
	assert.False(t, dist.DirExists)
}
