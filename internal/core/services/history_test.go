package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tagger-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

func TestHistoryService_ListAndGet(t *testing.T) {
	store := memory.NewSubmissionStore()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, store.Save(ctx, domain.Submission{ID: "old", StartedAt: now.Add(-time.Hour)}))
	require.NoError(t, store.Save(ctx, domain.Submission{ID: "new", StartedAt: now}))

	service := NewHistoryService(store)

	subs, err := service.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "new", subs[0].ID)

	sub, err := service.Get(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, "old", sub.ID)
}

func TestHistoryService_Get_RequiresID(t *testing.T) {
	service := NewHistoryService(memory.NewSubmissionStore())

	_, err := service.Get(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryService_Delete(t *testing.T) {
	store := memory.NewSubmissionStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.Submission{ID: "gone"}))
	service := NewHistoryService(store)

	require.NoError(t, service.Delete(ctx, "gone"))

	_, err := service.Get(ctx, "gone")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, service.Delete(ctx, ""), domain.ErrInvalidInput)
}

func TestHistoryService_RecordOutput(t *testing.T) {
	store := memory.NewSubmissionStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.Submission{ID: "s1", FileName: "products.xlsx"}))
	service := NewHistoryService(store)

	require.NoError(t, service.RecordOutput(ctx, "s1", "/out/products_enhanced.xlsx"))

	sub, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "/out/products_enhanced.xlsx", sub.OutputPath)
	assert.Equal(t, "products.xlsx", sub.FileName)

	assert.ErrorIs(t, service.RecordOutput(ctx, "missing", "/x"), domain.ErrNotFound)
}

func TestHistoryService_NoStore(t *testing.T) {
	service := NewHistoryService(nil)
	ctx := context.Background()

	_, err := service.List(ctx, 5)
	assert.ErrorIs(t, err, errHistoryUnavailable)
	_, err = service.Get(ctx, "x")
	assert.ErrorIs(t, err, errHistoryUnavailable)
	assert.ErrorIs(t, service.Delete(ctx, "x"), errHistoryUnavailable)
}
