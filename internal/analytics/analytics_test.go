package analytics

import (
	"context"
	"testing"
	"time"

	"sentinel-denylist/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportCountsOutcomes(t *testing.T) {
	store, err := storage.New(":memory:")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate())

	ctx := context.Background()
	now := time.Now()
	for _, details := range []string{"outcome=moderated entry=a", "outcome=moderated entry=b", "outcome=warned entry=a", "refresh failed"} {
		require.NoError(t, store.AddAuditLog(ctx, storage.AuditLog{GuildID: "g1", Level: "WARN", Event: "denylist_match", Details: details, CreatedAt: now}))
	}

	report, err := New(store).Report(ctx, "g1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.ByOutcome["moderated"])
	assert.Equal(t, 1, report.ByOutcome["warned"])
	assert.Equal(t, 4, report.ByLevel["WARN"])
}

func TestReportWithoutStore(t *testing.T) {
	report, err := New(nil).Report(context.Background(), "g1", time.Now())
	require.NoError(t, err)
	assert.Zero(t, report.Total)
}
