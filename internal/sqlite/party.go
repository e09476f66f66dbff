package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/knightbus/internal/domain/roster"
	"github.com/rpggio/knightbus/internal/repository"
)

const partyCounter = "party"

// PartyRepository implements roster.PartyRepository for SQLite
type PartyRepository struct {
	db *DB
}

// NewPartyRepository creates a new PartyRepository
func NewPartyRepository(db *DB) *PartyRepository {
	return &PartyRepository{db: db}
}

// Form allocates the next party id, snapshots every member and moves them to
// in-party, all in one transaction. A missing member yields ErrNotFound and a
// member that is not waiting yields ErrConflict; either way nothing is written.
func (r *PartyRepository) Form(ctx context.Context, req roster.FormRequest) (*roster.Party, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	partyID, err := nextCounter(ctx, tx, partyCounter)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO parties (id, formed_at) VALUES (?, ?)`, partyID, req.FormedAt); err != nil {
		return nil, fmt.Errorf("failed to create party: %w", err)
	}

	party := &roster.Party{
		ID:       partyID,
		Knights:  make([]roster.Knight, 0, len(req.KnightIDs)),
		Clients:  make([]roster.Client, 0, len(req.ClientIDs)),
		FormedAt: req.FormedAt,
	}

	for _, id := range req.KnightIDs {
		k, err := getKnight(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("knight %d: %w", id, err)
		}
		if err := roster.ValidateKnightTransition(k.Status, roster.KnightInParty); err != nil {
			return nil, fmt.Errorf("knight %d is %s: %w", id, k.Status, repository.ErrConflict)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE knights SET status = ? WHERE id = ?`, roster.KnightInParty, id); err != nil {
			return nil, fmt.Errorf("failed to update knight status: %w", err)
		}
		k.Status = roster.KnightInParty

		_, err = tx.ExecContext(ctx, `
			INSERT INTO party_knights (party_id, knight_id, name, job, power, relay_count, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, partyID, k.ID, k.Name, k.Job, k.Power, k.RelayCount, k.Status, k.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot knight: %w", err)
		}
		party.Knights = append(party.Knights, *k)
	}

	for _, id := range req.ClientIDs {
		c, err := getClient(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("client %d: %w", id, err)
		}
		if err := roster.ValidateClientTransition(c.Status, roster.ClientInParty); err != nil {
			return nil, fmt.Errorf("client %d is %s: %w", id, c.Status, repository.ErrConflict)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE clients SET status = ? WHERE id = ?`, roster.ClientInParty, id); err != nil {
			return nil, fmt.Errorf("failed to update client status: %w", err)
		}
		c.Status = roster.ClientInParty

		_, err = tx.ExecContext(ctx, `
			INSERT INTO party_clients (party_id, client_id, name, job, power, notes, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, partyID, c.ID, c.Name, c.Job, c.Power, c.Notes, c.Status, c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot client: %w", err)
		}
		party.Clients = append(party.Clients, *c)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return party, nil
}

// Complete releases the members of a party and deletes it in one transaction.
// Knights still in the party gain a relay and return to waiting; clients
// still in the party become completed. Members deleted since formation are
// skipped.
func (r *PartyRepository) Complete(ctx context.Context, partyID int64) (*roster.MissionResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	party, err := loadParty(ctx, tx, partyID)
	if err != nil {
		return nil, err
	}

	result := &roster.MissionResult{
		PartyID:          partyID,
		ReturnedKnights:  []int64{},
		CompletedClients: []int64{},
	}

	for _, k := range party.Knights {
		res, err := tx.ExecContext(ctx, `
			UPDATE knights
			SET status = ?, relay_count = relay_count + 1
			WHERE id = ? AND status = ?
		`, roster.KnightWaiting, k.ID, roster.KnightInParty)
		if err != nil {
			return nil, fmt.Errorf("failed to release knight: %w", err)
		}
		n, err := rowsAffected(res)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			result.ReturnedKnights = append(result.ReturnedKnights, k.ID)
		}
	}

	for _, c := range party.Clients {
		res, err := tx.ExecContext(ctx, `
			UPDATE clients SET status = ? WHERE id = ? AND status = ?
		`, roster.ClientCompleted, c.ID, roster.ClientInParty)
		if err != nil {
			return nil, fmt.Errorf("failed to complete client: %w", err)
		}
		n, err := rowsAffected(res)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			result.CompletedClients = append(result.CompletedClients, c.ID)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM parties WHERE id = ?`, partyID); err != nil {
		return nil, fmt.Errorf("failed to delete party: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

// Get retrieves a live party with its snapshots
func (r *PartyRepository) Get(ctx context.Context, id int64) (*roster.Party, error) {
	return loadParty(ctx, r.db, id)
}

// List returns every live party ordered by id
func (r *PartyRepository) List(ctx context.Context) ([]roster.Party, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, formed_at FROM parties ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}

	parties := []roster.Party{}
	index := make(map[int64]int)
	for rows.Next() {
		p := roster.Party{Knights: []roster.Knight{}, Clients: []roster.Client{}}
		if err := rows.Scan(&p.ID, &p.FormedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan party: %w", err)
		}
		index[p.ID] = len(parties)
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating party rows: %w", err)
	}
	rows.Close()

	knights, err := listKnightSnapshots(ctx, r.db, nil)
	if err != nil {
		return nil, err
	}
	for partyID, ks := range knights {
		if i, ok := index[partyID]; ok {
			parties[i].Knights = ks
		}
	}

	clients, err := listClientSnapshots(ctx, r.db, nil)
	if err != nil {
		return nil, err
	}
	for partyID, cs := range clients {
		if i, ok := index[partyID]; ok {
			parties[i].Clients = cs
		}
	}

	return parties, nil
}

// FindByKnight returns the id of the live party listing the knight
func (r *PartyRepository) FindByKnight(ctx context.Context, knightID int64) (int64, error) {
	return findParty(ctx, r.db, `SELECT party_id FROM party_knights WHERE knight_id = ? ORDER BY party_id DESC LIMIT 1`, knightID)
}

// FindByClient returns the id of the live party listing the client
func (r *PartyRepository) FindByClient(ctx context.Context, clientID int64) (int64, error) {
	return findParty(ctx, r.db, `SELECT party_id FROM party_clients WHERE client_id = ? ORDER BY party_id DESC LIMIT 1`, clientID)
}

func findParty(ctx context.Context, q queryer, query string, memberID int64) (int64, error) {
	var partyID int64
	err := q.QueryRowContext(ctx, query, memberID).Scan(&partyID)
	if err == sql.ErrNoRows {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find party: %w", err)
	}
	return partyID, nil
}

func nextCounter(ctx context.Context, q queryer, name string) (int64, error) {
	var value int64
	err := q.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = ?`, name).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to read counter %s: %w", name, err)
	}
	if _, err := q.ExecContext(ctx, `UPDATE counters SET value = value + 1 WHERE name = ?`, name); err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", name, err)
	}
	return value, nil
}

func loadParty(ctx context.Context, q queryer, id int64) (*roster.Party, error) {
	party := roster.Party{Knights: []roster.Knight{}, Clients: []roster.Client{}}
	var formedAt time.Time
	err := q.QueryRowContext(ctx, `SELECT id, formed_at FROM parties WHERE id = ?`, id).Scan(&party.ID, &formedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get party: %w", err)
	}
	party.FormedAt = formedAt

	knights, err := listKnightSnapshots(ctx, q, &id)
	if err != nil {
		return nil, err
	}
	if ks, ok := knights[id]; ok {
		party.Knights = ks
	}

	clients, err := listClientSnapshots(ctx, q, &id)
	if err != nil {
		return nil, err
	}
	if cs, ok := clients[id]; ok {
		party.Clients = cs
	}

	return &party, nil
}

func listKnightSnapshots(ctx context.Context, q queryer, partyID *int64) (map[int64][]roster.Knight, error) {
	query := `
		SELECT party_id, knight_id, name, job, power, relay_count, status, created_at
		FROM party_knights
	`
	args := []any{}
	if partyID != nil {
		query += " WHERE party_id = ?"
		args = append(args, *partyID)
	}
	query += " ORDER BY party_id ASC, knight_id ASC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list knight snapshots: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]roster.Knight)
	for rows.Next() {
		var pid int64
		var k roster.Knight
		if err := rows.Scan(&pid, &k.ID, &k.Name, &k.Job, &k.Power, &k.RelayCount, &k.Status, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan knight snapshot: %w", err)
		}
		out[pid] = append(out[pid], k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating knight snapshot rows: %w", err)
	}
	return out, nil
}

func listClientSnapshots(ctx context.Context, q queryer, partyID *int64) (map[int64][]roster.Client, error) {
	query := `
		SELECT party_id, client_id, name, job, power, notes, status, created_at
		FROM party_clients
	`
	args := []any{}
	if partyID != nil {
		query += " WHERE party_id = ?"
		args = append(args, *partyID)
	}
	query += " ORDER BY party_id ASC, client_id ASC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list client snapshots: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]roster.Client)
	for rows.Next() {
		var pid int64
		var c roster.Client
		if err := rows.Scan(&pid, &c.ID, &c.Name, &c.Job, &c.Power, &c.Notes, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client snapshot: %w", err)
		}
		out[pid] = append(out[pid], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client snapshot rows: %w", err)
	}
	return out, nil
}
