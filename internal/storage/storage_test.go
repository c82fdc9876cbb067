package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.Migrate())
	return store
}

func TestMigrateIsRepeatable(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Migrate())
}

func TestAuditLogRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	entries := []AuditLog{
		{GuildID: "g1", UserID: "u1", Level: "WARN", Event: "denylist_match", Details: "outcome=moderated", CreatedAt: now.Add(-time.Minute)},
		{GuildID: "g1", UserID: "u2", Level: "INFO", Event: "denylist_match", Details: "outcome=audited", CreatedAt: now},
		{GuildID: "g2", UserID: "u3", Level: "WARN", Event: "denylist_match", Details: "outcome=warned", CreatedAt: now},
		{GuildID: "g1", UserID: "u4", Level: "WARN", Event: "denylist_match", Details: "old", CreatedAt: now.Add(-48 * time.Hour)},
	}
	for _, entry := range entries {
		require.NoError(t, store.AddAuditLog(ctx, entry))
	}

	logs, err := store.ListAuditLogs(ctx, "g1", now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "u2", logs[0].UserID, "newest first")
}

func TestCleanupAuditLogs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddAuditLog(ctx, AuditLog{GuildID: "g1", Level: "INFO", Event: "e", CreatedAt: time.Now().AddDate(0, 0, -30)}))
	require.NoError(t, store.AddAuditLog(ctx, AuditLog{GuildID: "g1", Level: "INFO", Event: "e", CreatedAt: time.Now()}))

	removed, err := store.CleanupAuditLogs(ctx, 14)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}

func TestRebindPostgres(t *testing.T) {
	store := &Store{driver: driverPostgres}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", store.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	sqlite := &Store{driver: driverSQLite}
	assert.Equal(t, "a = ?", sqlite.rebind("a = ?"))
}

func TestOpenWithoutConfigReturnsNil(t *testing.T) {
	store, err := Open(context.Background(), "", "")
	assert.NoError(t, err)
	assert.Nil(t, store)

	_, err = Open(context.Background(), "mysql://x", "")
	assert.Error(t, err, "unsupported scheme")
}
