package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenMemory()
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"knights",
		"clients",
		"counters",
		"parties",
		"party_knights",
		"party_clients",
		"activity_log",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestPartyCounterStartsAtOne verifies the seeded party counter
func TestPartyCounterStartsAtOne(t *testing.T) {
	db := NewTestDB(t)

	var value int64
	err := db.QueryRow("SELECT value FROM counters WHERE name = 'party'").Scan(&value)
	require.NoError(t, err)
	require.Equal(t, int64(1), value)
}

// TestStatusConstraints verifies status CHECK constraints
func TestStatusConstraints(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	now := time.Now()

	_, err := db.ExecContext(ctx,
		`INSERT INTO knights (id, name, job, power, relay_count, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		1, "Hong", "Rogue", 50000, 0, "completed", now)
	require.Error(t, err, "knights cannot be completed")

	_, err = db.ExecContext(ctx,
		`INSERT INTO clients (id, name, job, power, notes, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		1, "Kim", "Mage", 30000, "", "off_duty", now)
	require.Error(t, err, "clients cannot be off duty")

	_, err = db.ExecContext(ctx,
		`INSERT INTO knights (id, name, job, power, relay_count, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		2, "Hong", "Rogue", 50000, -1, "waiting", now)
	require.Error(t, err, "relay count cannot be negative")
}

// TestSnapshotCascade verifies that deleting a party removes its snapshots
func TestSnapshotCascade(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	now := time.Now()

	_, err := db.ExecContext(ctx, `INSERT INTO parties (id, formed_at) VALUES (?, ?)`, 1, now)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO party_knights (party_id, knight_id, name, job, power, relay_count, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		1, 10, "Hong", "Rogue", 50000, 0, "in_party", now)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `DELETE FROM parties WHERE id = ?`, 1)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM party_knights`).Scan(&count))
	require.Zero(t, count)
}
