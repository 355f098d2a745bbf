package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tagger-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tagger-cli/internal/core/services"
)

// mockWorkflow implements driving.WorkflowService for testing. Run replays
// the emit states to subscribers before returning the final state.
type mockWorkflow struct {
	emit      []domain.WorkflowState
	final     domain.WorkflowState
	err       error
	observers []driving.StateObserver
	file      domain.UploadedFile
	bucket    string
	calls     int
}

func (m *mockWorkflow) Run(_ context.Context, file domain.UploadedFile, bucket string) (domain.WorkflowState, error) {
	m.calls++
	m.file = file
	m.bucket = bucket
	for _, s := range m.emit {
		for _, obs := range m.observers {
			if obs != nil {
				obs(s)
			}
		}
	}
	return m.final, m.err
}

func (m *mockWorkflow) State() domain.WorkflowState {
	return m.final
}

func (m *mockWorkflow) Subscribe(observer driving.StateObserver) func() {
	idx := len(m.observers)
	m.observers = append(m.observers, observer)
	return func() { m.observers[idx] = nil }
}

type testServices struct {
	workflow    *mockWorkflow
	configStore *memory.ConfigStore
	submissions *memory.SubmissionStore
}

// setupTestServices installs fresh services and resets flag state.
func setupTestServices(t *testing.T, wf *mockWorkflow) *testServices {
	t.Helper()

	oldWorkflow, oldSettings, oldHistory := workflowService, settingsService, historyService

	ts := &testServices{
		workflow:    wf,
		configStore: memory.NewConfigStore(),
		submissions: memory.NewSubmissionStore(),
	}
	Configure(Config{
		Settings: services.NewSettingsService(ts.configStore),
		History:  services.NewHistoryService(ts.submissions),
	})
	if wf != nil {
		workflowService = wf
	}

	resetFlags()
	t.Cleanup(func() {
		workflowService, settingsService, historyService = oldWorkflow, oldSettings, oldHistory
		resetFlags()
	})
	return ts
}

func resetFlags() {
	verbose = false
	processBucket, processOutputDir = "", ""
	processJSON, processNoTUI = false, false
	historyJSON, historyLimit = false, 10
	watchBucket, watchOutputDir, watchPerMinute = "", "", 0
	mcpPort, mcpHost = 0, "localhost"
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeSpreadsheet(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04 spreadsheet"), 0644))
	return path
}

func readyState() domain.WorkflowState {
	return domain.WorkflowState{
		Phase:        domain.PhaseReady,
		SubmissionID: "sub-1",
		FileName:     "products.xlsx",
		Bucket:       domain.DefaultBucket,
		Progress:     services.ProgressComplete,
		Summary:      &domain.ResultsSummary{TotalProducts: 10, SuccessfulSummaries: 9, SuccessfulTags: 10},
		Artifact:     &domain.DownloadedArtifact{Data: []byte("enhanced"), SuggestedFileName: "products_enhanced.xlsx"},
	}
}
