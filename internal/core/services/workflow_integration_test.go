package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tagger-cli/internal/adapters/driven/download"
	"github.com/custodia-labs/tagger-cli/internal/adapters/driven/enrichment"
	"github.com/custodia-labs/tagger-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tagger-cli/internal/core/domain"
	"github.com/custodia-labs/tagger-cli/internal/core/services"
)

// newHTTPWorkflow wires the real HTTP adapters to endpoint.
func newHTTPWorkflow(t *testing.T, endpoint string, timeout time.Duration) (*services.Workflow, *memory.SubmissionStore) {
	t.Helper()

	processor, err := enrichment.NewClient(enrichment.Config{Endpoint: endpoint, Timeout: timeout})
	require.NoError(t, err)

	store := memory.NewSubmissionStore()
	w := services.NewWorkflow(
		processor,
		download.NewClient(download.Config{Timeout: time.Second}),
		services.NewSimulatedProgress(0),
		store,
		services.WorkflowConfig{Suffix: domain.DefaultSuffix},
	)
	return w, store
}

func observePhases(w *services.Workflow) func() []domain.Phase {
	var mu sync.Mutex
	var phases []domain.Phase
	w.Subscribe(func(s domain.WorkflowState) {
		mu.Lock()
		defer mu.Unlock()
		if len(phases) == 0 || phases[len(phases)-1] != s.Phase {
			phases = append(phases, s.Phase)
		}
	})
	return func() []domain.Phase {
		mu.Lock()
		defer mu.Unlock()
		return append([]domain.Phase(nil), phases...)
	}
}

var workbook = domain.UploadedFile{Name: "products.xlsx", Data: []byte("PK\x03\x04 workbook bytes")}

func TestWorkflowHTTP_ProcessAndDownload(t *testing.T) {
	artifact := []byte("PK\x03\x04 enhanced workbook")

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/process", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results_summary":{"total_products":10,"successful_summaries":9,"successful_tags":10},"download_url":"` + server.URL + `/files/out.xlsx"}`))
	})
	mux.HandleFunc("/files/out.xlsx", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(artifact)
	})

	w, store := newHTTPWorkflow(t, server.URL+"/process", time.Second)
	phases := observePhases(w)

	state, err := w.Run(context.Background(), workbook, "")

	require.NoError(t, err)
	assert.Equal(t, domain.PhaseReady, state.Phase)
	require.True(t, state.HasArtifact())
	assert.Equal(t, artifact, state.Artifact.Data)
	assert.Equal(t, "products_enhanced.xlsx", state.Artifact.SuggestedFileName)
	assert.Equal(t, domain.ResultsSummary{TotalProducts: 10, SuccessfulSummaries: 9, SuccessfulTags: 10}, *state.Summary)
	assert.Contains(t, phases(), domain.PhaseDownloading)
	assert.Equal(t, domain.PhaseReady, phases()[len(phases())-1])

	subs, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, domain.PhaseReady, subs[0].Phase)
	assert.Equal(t, server.URL+"/process", subs[0].Endpoint)
	assert.Equal(t, domain.DefaultBucket, subs[0].Bucket)
}

func TestWorkflowHTTP_RemoteErrorKeepsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal error"))
	}))
	defer server.Close()

	w, _ := newHTTPWorkflow(t, server.URL, time.Second)

	state, err := w.Run(context.Background(), workbook, "")

	require.NoError(t, err)
	assert.Equal(t, domain.PhaseFailed, state.Phase)
	require.NotNil(t, state.Failure)
	assert.Equal(t, domain.FailureRemote, state.Failure.Kind)
	assert.Equal(t, http.StatusInternalServerError, state.Failure.HTTPStatus)
	assert.Equal(t, "internal error", state.Failure.Body)
	assert.False(t, state.HasArtifact())
}

func TestWorkflowHTTP_TimeoutIsNotNetworkError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	w, _ := newHTTPWorkflow(t, server.URL, 50*time.Millisecond)

	state, err := w.Run(context.Background(), workbook, "")

	require.NoError(t, err)
	assert.Equal(t, domain.PhaseFailed, state.Phase)
	assert.Equal(t, domain.FailureTimeout, state.Failure.Kind)
}

func TestWorkflowHTTP_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := server.URL
	server.Close()

	w, _ := newHTTPWorkflow(t, endpoint, time.Second)

	state, err := w.Run(context.Background(), workbook, "")

	require.NoError(t, err)
	assert.Equal(t, domain.PhaseFailed, state.Phase)
	assert.Equal(t, domain.FailureNetwork, state.Failure.Kind)
}

func TestWorkflowHTTP_SummaryOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results_summary":{"total_products":4,"successful_summaries":4,"successful_tags":3}}`))
	}))
	defer server.Close()

	w, _ := newHTTPWorkflow(t, server.URL, time.Second)
	phases := observePhases(w)

	state, err := w.Run(context.Background(), workbook, "")

	require.NoError(t, err)
	assert.Equal(t, domain.PhaseReady, state.Phase)
	assert.False(t, state.HasArtifact())
	assert.Equal(t, 4, state.Summary.TotalProducts)
	assert.Equal(t, 3, state.Summary.SuccessfulTags)
	assert.NotContains(t, phases(), domain.PhaseDownloading)
}

func TestWorkflowHTTP_DownloadNotFoundKeepsSummary(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/process", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results_summary":{"total_products":10,"successful_summaries":9,"successful_tags":10},"download_url":"` + server.URL + `/missing"}`))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	w, _ := newHTTPWorkflow(t, server.URL+"/process", time.Second)

	state, err := w.Run(context.Background(), workbook, "")

	require.NoError(t, err)
	assert.Equal(t, domain.PhaseFailed, state.Phase)
	assert.Equal(t, domain.FailureDownload, state.Failure.Kind)
	assert.Equal(t, http.StatusNotFound, state.Failure.HTTPStatus)
	require.NotNil(t, state.Summary)
	assert.Equal(t, 10, state.Summary.TotalProducts)
}

func TestWorkflowHTTP_EmptyFileNeverCallsEndpoint(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls++
	}))
	defer server.Close()

	w, _ := newHTTPWorkflow(t, server.URL, time.Second)

	state, err := w.Run(context.Background(), domain.UploadedFile{Name: "empty.xlsx"}, "")

	require.NoError(t, err)
	assert.Equal(t, domain.PhaseFailed, state.Phase)
	assert.Equal(t, domain.FailureEncoding, state.Failure.Kind)
	assert.Zero(t, calls)
}
