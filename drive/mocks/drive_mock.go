package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) CreateDocument(ctx context.Context, accessToken string, title string, content string) (string, error) {
	args := m.Called(ctx, accessToken, title, content)
	return args.String(0), args.Error(1)
}
