package mocks

import (
	"context"

	"github.com/rpggio/knightbus/internal/domain/activity"
	"github.com/rpggio/knightbus/internal/domain/roster"
	"github.com/stretchr/testify/mock"
)

// KnightRepository is a mock for roster.KnightRepository.
type KnightRepository struct {
	mock.Mock
}

func (m *KnightRepository) Create(ctx context.Context, k *roster.Knight) error {
	args := m.Called(ctx, k)
	return args.Error(0)
}

func (m *KnightRepository) CreateBatch(ctx context.Context, knights []*roster.Knight) error {
	args := m.Called(ctx, knights)
	return args.Error(0)
}

func (m *KnightRepository) Get(ctx context.Context, id int64) (*roster.Knight, error) {
	args := m.Called(ctx, id)
	if k, ok := args.Get(0).(*roster.Knight); ok {
		return k, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *KnightRepository) Update(ctx context.Context, k *roster.Knight) error {
	args := m.Called(ctx, k)
	return args.Error(0)
}

func (m *KnightRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *KnightRepository) List(ctx context.Context) ([]roster.Knight, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]roster.Knight); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ClientRepository is a mock for roster.ClientRepository.
type ClientRepository struct {
	mock.Mock
}

func (m *ClientRepository) Create(ctx context.Context, c *roster.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ClientRepository) Get(ctx context.Context, id int64) (*roster.Client, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*roster.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) Update(ctx context.Context, c *roster.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ClientRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ClientRepository) List(ctx context.Context) ([]roster.Client, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]roster.Client); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// PartyRepository is a mock for roster.PartyRepository.
type PartyRepository struct {
	mock.Mock
}

func (m *PartyRepository) Form(ctx context.Context, req roster.FormRequest) (*roster.Party, error) {
	args := m.Called(ctx, req)
	if p, ok := args.Get(0).(*roster.Party); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartyRepository) Complete(ctx context.Context, partyID int64) (*roster.MissionResult, error) {
	args := m.Called(ctx, partyID)
	if res, ok := args.Get(0).(*roster.MissionResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartyRepository) Get(ctx context.Context, id int64) (*roster.Party, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*roster.Party); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartyRepository) List(ctx context.Context) ([]roster.Party, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]roster.Party); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartyRepository) FindByKnight(ctx context.Context, knightID int64) (int64, error) {
	args := m.Called(ctx, knightID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PartyRepository) FindByClient(ctx context.Context, clientID int64) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
