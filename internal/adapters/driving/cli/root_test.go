package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/tagger-cli/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "tagger", rootCmd.Use)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"process", "settings", "history", "watch", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	setupTestServices(t, nil)
	defer logger.SetVerbose(false)

	_, err := execute(t, "version", "--verbose")

	assert.NoError(t, err)
	assert.True(t, logger.IsVerbose())

	resetFlags()
	_, err = execute(t, "version")

	assert.NoError(t, err)
	assert.False(t, logger.IsVerbose())
}

func TestConfigure(t *testing.T) {
	setupTestServices(t, nil)
	wf := &mockWorkflow{}

	Configure(Config{Workflow: wf})

	assert.Equal(t, wf, workflowService)
	assert.Nil(t, settingsService)
	assert.Nil(t, historyService)
}
