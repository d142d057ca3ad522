package app

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/fx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshnet-io/meshd/config"
)

func TestLoadConfig_MissingPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_AbsentFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig(filepath.Join(dir, "does-not-exist.conf"))
	require.NoError(t, err)
	assert.NotZero(t, cfg.OverlayUDPPort)
}

func TestLoadConfig_OverlaysOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meshd.conf")
	require.NoError(t, os.WriteFile(path, []byte(`{"overlay_udp_port": 4242, "log_level": "debug"}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4242, cfg.OverlayUDPPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	// fields untouched by the overlay keep their defaults
	assert.NotZero(t, cfg.ControlUDPPort)
}

func TestLoadConfig_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meshd.conf")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidAfterMergeFailsValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meshd.conf")
	require.NoError(t, os.WriteFile(path, []byte(`{"overlay_udp_port": -1}`), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestRemoveLegacyFiles_EmptyHomeDirIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { removeLegacyFiles("") })
}

func TestRemoveLegacyFiles_AbsentFilesAreFine(t *testing.T) {
	dir := t.TempDir()
	assert.NotPanics(t, func() { removeLegacyFiles(dir) })
}

// TestModuleOptions_BuildsValidGraph constructs the full fx dependency
// graph moduleOptions assembles, catching the class of bug where a
// module only exports its interface (fx.As) while its own lifecycle
// hook still asks for the concrete type: fx.New would fail with a
// missing-dependency error for every such module, and the app could
// never start.
func TestModuleOptions_BuildsValidGraph(t *testing.T) {
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.HomeDir = dir
	cfg.Identity.Dir = filepath.Join(dir, "identity")
	cfg.ControlUDPPort = 19393 // avoid the real default loopback control port
	cfg.OverlayUDPPort = 19993 // avoid the real default overlay port
	cfg.NAT.EnableUPnP = false
	cfg.NAT.EnableNATPMP = false
	require.NoError(t, cfg.Validate())

	err := fx.ValidateApp(moduleOptions(cfg)...)
	assert.NoError(t, err)
}

func TestRemoveLegacyFiles_RemovesPresentFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range legacyFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	removeLegacyFiles(dir)

	for _, name := range legacyFiles {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.True(t, os.IsNotExist(err), "expected %s to be removed", name)
	}
}
