package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/FairviewRisk/provision/internal/store"
)

// MockStore implements store.Store for handler tests.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateCreditRecord(ctx context.Context, rec *store.CreditRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockStore) GetCreditRecord(ctx context.Context, id uuid.UUID) (*store.CreditRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.CreditRecord), args.Error(1)
}

func (m *MockStore) ListCreditRecords(ctx context.Context, filter store.RecordFilter) ([]*store.CreditRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.CreditRecord), args.Error(1)
}

func (m *MockStore) UpdateCreditRecord(ctx context.Context, rec *store.CreditRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockStore) GetRiskWeights(ctx context.Context) (*store.RiskWeights, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.RiskWeights), args.Error(1)
}

func (m *MockStore) SaveRiskWeights(ctx context.Context, w *store.RiskWeights) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockStore) SaveSnapshot(ctx context.Context, s *store.Snapshot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStore) ListSnapshots(ctx context.Context, limit int) ([]*store.Snapshot, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Snapshot), args.Error(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
