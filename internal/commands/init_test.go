package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockledger/stockledger/internal/config"
	"github.com/stockledger/stockledger/internal/store"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "stockledger-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "stockledger")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/stockledger")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runStockledger(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "STOCKLEDGER_USER=", "STOCKLEDGER_PASSWORD=", "STOCKLEDGER_CONFIG=")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runStockledger(t, "init", dir, "--name", "Test Biz", "--no-git")
	require.NoError(t, err)

	expectedDirs := []string{
		"data",
		"logs",
		filepath.Join("data", "import"),
		filepath.Join("data", "import", "processed"),
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	for _, f := range []string{store.AccountsFile, store.InventoryFile, store.TransactionsFile} {
		_, err := os.Stat(filepath.Join(dir, "data", f))
		assert.NoError(t, err, "%s should exist", f)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runStockledger(t, "init", dir, "--name", "My Company", "--currency", "USD", "--no-git")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: My Company")
	assert.Contains(t, contents, "currency: USD")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Len(t, cfg.Users, 6)
	assert.False(t, cfg.Git.AutoCommit)
}

func TestInit_EmptyByDefault(t *testing.T) {
	dir := t.TempDir()
	_, err := runStockledger(t, "init", dir, "--name", "Test Biz", "--no-git")
	require.NoError(t, err)

	s, err := store.Load(filepath.Join(dir, "data"))
	require.NoError(t, err)
	accts, items, txns := s.Counts()
	assert.Zero(t, accts)
	assert.Zero(t, items)
	assert.Zero(t, txns)
}

func TestInit_Seed(t *testing.T) {
	dir := t.TempDir()
	_, err := runStockledger(t, "init", dir, "--name", "Test Biz", "--seed", "--no-git")
	require.NoError(t, err)

	s, err := store.Load(filepath.Join(dir, "data"))
	require.NoError(t, err)
	accts, items, txns := s.Counts()
	assert.Equal(t, 5, accts)
	assert.Equal(t, 4, items)
	assert.Equal(t, 6, txns)
}

func TestInit_GitRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, err := runStockledger(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	// .git directory should exist.
	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	// git log should have an init commit.
	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init:")

	// Verify author.
	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	out, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "stockledger <stockledger@localhost>")
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := runStockledger(t, "init", dir, "--name", "Test Biz", "--no-git")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "exports/")
}

func TestInit_RequiresName(t *testing.T) {
	dir := t.TempDir()
	_, err := runStockledger(t, "init", dir)
	require.Error(t, err, "init without --name should fail")
}

func TestInit_RefusesExistingProject(t *testing.T) {
	dir := t.TempDir()
	_, err := runStockledger(t, "init", dir, "--name", "Test Biz", "--no-git")
	require.NoError(t, err)

	out, err := runStockledger(t, "init", dir, "--name", "Again", "--no-git")
	require.Error(t, err)
	assert.Contains(t, out, "already exists")
}

func TestLogin_WrongPassword(t *testing.T) {
	dir := t.TempDir()
	_, err := runStockledger(t, "init", dir, "--name", "Test Biz", "--no-git")
	require.NoError(t, err)

	cfg := filepath.Join(dir, config.FileName)
	out, err := runStockledger(t, "whoami", "--config", cfg, "-u", "admin", "-p", "nope")
	require.Error(t, err)
	assert.Contains(t, out, "invalid username or password")

	out, err = runStockledger(t, "whoami", "--config", cfg, "-u", "store1", "-p", "password")
	require.NoError(t, err)
	assert.Contains(t, out, "store1 (LOCATION)")
	assert.Contains(t, out, "access: inventory")
}
