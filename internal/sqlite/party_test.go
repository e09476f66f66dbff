package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/knightbus/internal/domain/roster"
	"github.com/rpggio/knightbus/internal/repository"
	"github.com/stretchr/testify/require"
)

type partyFixture struct {
	db      *DB
	knights *KnightRepository
	clients *ClientRepository
	parties *PartyRepository
}

func newPartyFixture(t *testing.T) partyFixture {
	t.Helper()
	db := NewTestDB(t)
	return partyFixture{
		db:      db,
		knights: NewKnightRepository(db),
		clients: NewClientRepository(db),
		parties: NewPartyRepository(db),
	}
}

func TestPartyRepository_FormAndComplete(t *testing.T) {
	f := newPartyFixture(t)
	ctx := context.Background()

	require.NoError(t, f.knights.Create(ctx, newKnight(1, "Hong", roster.KnightWaiting)))
	require.NoError(t, f.clients.Create(ctx, newClient(2, "Kim", roster.ClientWaiting)))

	party, err := f.parties.Form(ctx, roster.FormRequest{
		KnightIDs: []int64{1},
		ClientIDs: []int64{2},
		FormedAt:  time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), party.ID)
	require.Len(t, party.Knights, 1)
	require.Len(t, party.Clients, 1)
	require.Equal(t, roster.KnightInParty, party.Knights[0].Status)

	k, err := f.knights.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, roster.KnightInParty, k.Status)

	partyID, err := f.parties.FindByKnight(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), partyID)
	partyID, err = f.parties.FindByClient(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), partyID)

	result, err := f.parties.Complete(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{1}, result.ReturnedKnights)
	require.Equal(t, []int64{2}, result.CompletedClients)

	k, err = f.knights.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, roster.KnightWaiting, k.Status)
	require.Equal(t, int64(1), k.RelayCount)

	c, err := f.clients.Get(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, roster.ClientCompleted, c.Status)

	_, err = f.parties.Get(ctx, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.parties.FindByKnight(ctx, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.parties.Complete(ctx, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)
	k, err = f.knights.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), k.RelayCount)
}

func TestPartyRepository_FormRollsBackOnUnavailableMember(t *testing.T) {
	f := newPartyFixture(t)
	ctx := context.Background()

	require.NoError(t, f.knights.Create(ctx, newKnight(1, "Hong", roster.KnightWaiting)))
	require.NoError(t, f.knights.Create(ctx, newKnight(2, "Lee", roster.KnightOffDuty)))
	require.NoError(t, f.clients.Create(ctx, newClient(3, "Kim", roster.ClientWaiting)))

	_, err := f.parties.Form(ctx, roster.FormRequest{
		KnightIDs: []int64{1, 2},
		ClientIDs: []int64{3},
		FormedAt:  time.Now(),
	})
	require.ErrorIs(t, err, repository.ErrConflict)

	k, err := f.knights.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, roster.KnightWaiting, k.Status)
	c, err := f.clients.Get(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, roster.ClientWaiting, c.Status)

	parties, err := f.parties.List(ctx)
	require.NoError(t, err)
	require.Empty(t, parties)

	_, err = f.parties.Form(ctx, roster.FormRequest{
		KnightIDs: []int64{1},
		ClientIDs: []int64{99},
		FormedAt:  time.Now(),
	})
	require.ErrorIs(t, err, repository.ErrNotFound)

	party, err := f.parties.Form(ctx, roster.FormRequest{
		KnightIDs: []int64{1},
		ClientIDs: []int64{3},
		FormedAt:  time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), party.ID, "failed formations must not consume party ids")
}

func TestPartyRepository_IDsAreNeverReused(t *testing.T) {
	f := newPartyFixture(t)
	ctx := context.Background()

	require.NoError(t, f.knights.Create(ctx, newKnight(1, "Hong", roster.KnightWaiting)))
	require.NoError(t, f.clients.Create(ctx, newClient(2, "Kim", roster.ClientWaiting)))
	require.NoError(t, f.clients.Create(ctx, newClient(3, "Park", roster.ClientWaiting)))

	first, err := f.parties.Form(ctx, roster.FormRequest{KnightIDs: []int64{1}, ClientIDs: []int64{2}, FormedAt: time.Now()})
	require.NoError(t, err)
	_, err = f.parties.Complete(ctx, first.ID)
	require.NoError(t, err)

	second, err := f.parties.Form(ctx, roster.FormRequest{KnightIDs: []int64{1}, ClientIDs: []int64{3}, FormedAt: time.Now()})
	require.NoError(t, err)
	require.Equal(t, first.ID+1, second.ID)
}

func TestPartyRepository_SnapshotsSurviveMemberChanges(t *testing.T) {
	f := newPartyFixture(t)
	ctx := context.Background()

	require.NoError(t, f.knights.Create(ctx, newKnight(1, "Hong", roster.KnightWaiting)))
	require.NoError(t, f.clients.Create(ctx, newClient(2, "Kim", roster.ClientWaiting)))
	_, err := f.parties.Form(ctx, roster.FormRequest{KnightIDs: []int64{1}, ClientIDs: []int64{2}, FormedAt: time.Now()})
	require.NoError(t, err)

	k, err := f.knights.Get(ctx, 1)
	require.NoError(t, err)
	k.Name = "Renamed"
	require.NoError(t, f.knights.Update(ctx, k))
	require.NoError(t, f.clients.Delete(ctx, 2))

	parties, err := f.parties.List(ctx)
	require.NoError(t, err)
	require.Len(t, parties, 1)
	require.Equal(t, "Hong", parties[0].Knights[0].Name)
	require.Equal(t, "Kim", parties[0].Clients[0].Name)

	result, err := f.parties.Complete(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{1}, result.ReturnedKnights)
	require.Empty(t, result.CompletedClients)
}
