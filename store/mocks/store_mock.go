package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/enkv/draftpad/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) EnsureUser(ctx context.Context, user models.User) (models.User, bool, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.User), args.Bool(1), args.Error(2)
}

func (m *MockStore) SyncUser(ctx context.Context, email string, name string, image string) (models.User, error) {
	args := m.Called(ctx, email, name, image)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStore) GetUser(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStore) DeleteUser(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockStore) AppendDraft(ctx context.Context, email string, text string) ([]models.Draft, error) {
	args := m.Called(ctx, email, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Draft), args.Error(1)
}

func (m *MockStore) UpdateDraftText(ctx context.Context, email string, draftId string, newText string) ([]models.Draft, error) {
	args := m.Called(ctx, email, draftId, newText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Draft), args.Error(1)
}

func (m *MockStore) RemoveDraft(ctx context.Context, email string, draftId string) ([]models.Draft, error) {
	args := m.Called(ctx, email, draftId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Draft), args.Error(1)
}

func (m *MockStore) AttachFileId(ctx context.Context, email string, draftId string, fileId string) ([]models.Draft, error) {
	args := m.Called(ctx, email, draftId, fileId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Draft), args.Error(1)
}
