package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/knightbus/internal/domain/roster"
	"github.com/rpggio/knightbus/internal/repository"
)

// KnightRepository implements roster.KnightRepository for SQLite
type KnightRepository struct {
	db *DB
}

// NewKnightRepository creates a new KnightRepository
func NewKnightRepository(db *DB) *KnightRepository {
	return &KnightRepository{db: db}
}

const insertKnightQuery = `
	INSERT INTO knights (id, name, job, power, relay_count, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

const selectKnightColumns = `id, name, job, power, relay_count, status, created_at`

// Create inserts a knight
func (r *KnightRepository) Create(ctx context.Context, k *roster.Knight) error {
	return insertKnight(ctx, r.db, k)
}

// CreateBatch inserts every knight in a single transaction
func (r *KnightRepository) CreateBatch(ctx context.Context, knights []*roster.Knight) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, k := range knights {
		if err := insertKnight(ctx, tx, k); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertKnight(ctx context.Context, q queryer, k *roster.Knight) error {
	_, err := q.ExecContext(ctx, insertKnightQuery,
		k.ID,
		k.Name,
		k.Job,
		k.Power,
		k.RelayCount,
		k.Status,
		k.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("knight %d: %w", k.ID, repository.ErrConflict)
		}
		return fmt.Errorf("failed to create knight: %w", err)
	}
	return nil
}

// Get retrieves a knight by ID
func (r *KnightRepository) Get(ctx context.Context, id int64) (*roster.Knight, error) {
	return getKnight(ctx, r.db, id)
}

func getKnight(ctx context.Context, q queryer, id int64) (*roster.Knight, error) {
	query := `SELECT ` + selectKnightColumns + ` FROM knights WHERE id = ?`

	var k roster.Knight
	err := q.QueryRowContext(ctx, query, id).Scan(
		&k.ID,
		&k.Name,
		&k.Job,
		&k.Power,
		&k.RelayCount,
		&k.Status,
		&k.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get knight: %w", err)
	}
	return &k, nil
}

// Update writes every mutable column of a knight
func (r *KnightRepository) Update(ctx context.Context, k *roster.Knight) error {
	query := `
		UPDATE knights
		SET name = ?, job = ?, power = ?, relay_count = ?, status = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		k.Name,
		k.Job,
		k.Power,
		k.RelayCount,
		k.Status,
		k.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update knight: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a knight. Party snapshots are not touched.
func (r *KnightRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM knights WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete knight: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns all knights in insertion order
func (r *KnightRepository) List(ctx context.Context) ([]roster.Knight, error) {
	query := `SELECT ` + selectKnightColumns + ` FROM knights ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list knights: %w", err)
	}
	defer rows.Close()

	knights := []roster.Knight{}
	for rows.Next() {
		var k roster.Knight
		if err := rows.Scan(
			&k.ID,
			&k.Name,
			&k.Job,
			&k.Power,
			&k.RelayCount,
			&k.Status,
			&k.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan knight: %w", err)
		}
		knights = append(knights, k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating knight rows: %w", err)
	}
	return knights, nil
}
