package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/pdfdeck/internal/common"
)

// resetGlobals restores the package state setup mutates
func resetGlobals(t *testing.T) {
	t.Helper()
	crashDir := common.CrashLogDir
	t.Cleanup(func() {
		teardown(rootCmd, nil)
		configFiles = nil
		config = nil
		logger = nil
		application = nil
		common.CrashLogDir = crashDir
	})
}

func TestSetup_CrashDirectoryWithDefaults(t *testing.T) {
	resetGlobals(t)
	t.Chdir(t.TempDir())
	t.Setenv("PDFDECK_STORAGE_ENABLED", "false")

	common.CrashLogDir = "./logs"
	require.NoError(t, setup(rootCmd, nil))

	assert.Empty(t, config.Logging.Dir)
	info, err := os.Stat("logs")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	require.NotNil(t, application)
}
