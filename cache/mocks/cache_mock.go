package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/enkv/draftpad/models"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetDrafts(ctx context.Context, email string) ([]models.Draft, bool, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.Draft), args.Bool(1), args.Error(2)
}

func (m *MockCache) SetDrafts(ctx context.Context, email string, drafts []models.Draft) error {
	args := m.Called(ctx, email, drafts)
	return args.Error(0)
}

func (m *MockCache) InvalidateUser(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
