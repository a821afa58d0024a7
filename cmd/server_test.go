package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysmonbar/internal/auth"
	"sysmonbar/internal/conf"
)

func TestCreateUserRequiresPassword(t *testing.T) {
	require.NoError(t, conf.LoadConfig(filepath.Join(t.TempDir(), "config.toml")))
	t.Setenv("SYSMONBAR_PASSWORD", "")

	err := createUser("admin")
	assert.ErrorContains(t, err, "SYSMONBAR_PASSWORD")
	assert.False(t, auth.Enabled())
}

func TestCreateUser(t *testing.T) {
	require.NoError(t, conf.LoadConfig(filepath.Join(t.TempDir(), "config.toml")))
	t.Setenv("SYSMONBAR_PASSWORD", "s3cret")

	require.NoError(t, createUser("admin"))
	assert.True(t, auth.VerifyPassword("admin", "s3cret"))

	// The user survives a reload from disk.
	require.NoError(t, conf.Update())
	assert.True(t, auth.VerifyPassword("admin", "s3cret"))
}
