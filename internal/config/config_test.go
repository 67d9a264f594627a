package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockledger/stockledger/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Biz")
	cfg.Business.Currency = "USD"
	cfg.Log.Format = "json"

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Business, got.Business)
	assert.Equal(t, cfg.DataDir, got.DataDir)
	assert.Equal(t, cfg.Log, got.Log)
	assert.Equal(t, cfg.Git, got.Git)
	assert.Equal(t, cfg.Users, got.Users)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, "PKR", cfg.Business.Currency)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Git.AutoCommit)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Users, 6)
	assert.Equal(t, model.RoleAdmin, cfg.Users[0].Role)
	locations := map[model.Location]bool{}
	for _, u := range cfg.Users[1:] {
		assert.Equal(t, model.RoleLocation, u.Role)
		assert.Equal(t, "password", u.Password)
		locations[u.Location] = true
	}
	assert.Len(t, locations, len(model.Locations))
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  name: Bare\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "PKR", cfg.Business.Currency)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Users)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateUsers(t *testing.T) {
	tests := []struct {
		name  string
		users []model.User
		want  string
	}{
		{"missing username", []model.User{{ID: "u1", Role: model.RoleAdmin}}, "Username"},
		{"bad role", []model.User{{ID: "u1", Username: "x", Role: "ROOT"}}, "Role"},
		{"location user without location", []model.User{{ID: "u1", Username: "x", Role: model.RoleLocation}}, "Location"},
		{"unknown location", []model.User{{ID: "u1", Username: "x", Role: model.RoleLocation, Location: "locationMars"}}, "unknown location"},
		{"duplicate username", []model.User{
			{ID: "u1", Username: "x", Role: model.RoleAdmin},
			{ID: "u2", Username: "x", Role: model.RoleAdmin},
		}, "duplicate username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("Biz")
			cfg.Users = tt.users
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Test Biz")
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, "currency: PKR")
	assert.Contains(t, contents, "data_dir: data")
	assert.Contains(t, contents, "username: worldtyre")
	assert.Contains(t, contents, "location: locationWorldTyre")
	assert.Contains(t, contents, "auto_commit: true")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "debug", "json")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("item", "inv1").Info("hello")
	assert.Contains(t, buf.String(), `"item":"inv1"`)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	logger, err = NewLogger(&buf, "warn", "text")
	require.NoError(t, err)
	logger.Info("quiet")
	assert.Empty(t, buf.String())

	_, err = NewLogger(&buf, "loud", "text")
	assert.Error(t, err)
	_, err = NewLogger(&buf, "info", "xml")
	assert.Error(t, err)
}
