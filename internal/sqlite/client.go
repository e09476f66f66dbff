package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/knightbus/internal/domain/roster"
	"github.com/rpggio/knightbus/internal/repository"
)

// ClientRepository implements roster.ClientRepository for SQLite
type ClientRepository struct {
	db *DB
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const selectClientColumns = `id, name, job, power, notes, status, created_at`

// Create inserts a client
func (r *ClientRepository) Create(ctx context.Context, c *roster.Client) error {
	query := `
		INSERT INTO clients (id, name, job, power, notes, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Job,
		c.Power,
		c.Notes,
		c.Status,
		c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("client %d: %w", c.ID, repository.ErrConflict)
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// Get retrieves a client by ID
func (r *ClientRepository) Get(ctx context.Context, id int64) (*roster.Client, error) {
	return getClient(ctx, r.db, id)
}

func getClient(ctx context.Context, q queryer, id int64) (*roster.Client, error) {
	query := `SELECT ` + selectClientColumns + ` FROM clients WHERE id = ?`

	var c roster.Client
	err := q.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Job,
		&c.Power,
		&c.Notes,
		&c.Status,
		&c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

// Update writes every mutable column of a client
func (r *ClientRepository) Update(ctx context.Context, c *roster.Client) error {
	query := `
		UPDATE clients
		SET name = ?, job = ?, power = ?, notes = ?, status = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		c.Name,
		c.Job,
		c.Power,
		c.Notes,
		c.Status,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
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

// Delete removes a client. Party snapshots are not touched.
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
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

// List returns all clients in insertion order
func (r *ClientRepository) List(ctx context.Context) ([]roster.Client, error) {
	query := `SELECT ` + selectClientColumns + ` FROM clients ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []roster.Client{}
	for rows.Next() {
		var c roster.Client
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Job,
			&c.Power,
			&c.Notes,
			&c.Status,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}
	return clients, nil
}
