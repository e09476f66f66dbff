package roster

import (
	"context"

	"github.com/rpggio/knightbus/internal/domain/activity"
)

// KnightRepository provides storage for knights.
type KnightRepository interface {
	Create(ctx context.Context, k *Knight) error
	CreateBatch(ctx context.Context, knights []*Knight) error
	Get(ctx context.Context, id int64) (*Knight, error)
	Update(ctx context.Context, k *Knight) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Knight, error)
}

// ClientRepository provides storage for clients.
type ClientRepository interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, id int64) (*Client, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Client, error)
}

// PartyRepository owns the multi-entity party transitions. Form and Complete
// must apply to every member or to none.
type PartyRepository interface {
	Form(ctx context.Context, req FormRequest) (*Party, error)
	Complete(ctx context.Context, partyID int64) (*MissionResult, error)
	Get(ctx context.Context, id int64) (*Party, error)
	List(ctx context.Context) ([]Party, error)
	FindByKnight(ctx context.Context, knightID int64) (int64, error)
	FindByClient(ctx context.Context, clientID int64) (int64, error)
}

// ActivityLogger records roster commands in the journal.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
