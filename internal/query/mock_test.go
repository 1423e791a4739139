package query

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vorn-digital/adlens/internal/model"
	"github.com/vorn-digital/adlens/pkg/genai"
)

// --- Generator mock ---

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, opts genai.Options) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

// --- Store mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Query(ctx context.Context, sql string) (*model.Table, error) {
	args := m.Called(ctx, sql)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Table), args.Error(1)
}

func (m *mockStore) DistinctValues(ctx context.Context, table, column string) ([]string, error) {
	args := m.Called(ctx, table, column)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
