package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wingman/internal/config"
)

func TestTokenSecret_FromConfig(t *testing.T) {
	want := strings.Repeat("s", 32)
	got, err := tokenSecret(config.ServerConfig{TokenSecret: want}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []byte(want), got)
}

func TestOpenStore_SeedsCatalog(t *testing.T) {
	ctx := context.Background()
	cfg := config.ServerConfig{DBPath: filepath.Join(t.TempDir(), "web.db")}

	st, err := openStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer st.Close()

	providers, err := st.ListProviders(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, providers)

	def, err := st.DefaultProvider(ctx)
	require.NoError(t, err)
	assert.True(t, def.IsDefault)
}

func TestCommands_Registered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["create-user"])

	for _, flag := range []string{"email", "password"} {
		f := createUserCmd.Flags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, []string{"true"}, f.Annotations[cobra.BashCompOneRequiredFlag], flag)
	}
}
