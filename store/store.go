package store

import (
	"context"
	"errors"

	"github.com/enkv/draftpad/models"
)

// DraftStore persists user records with their embedded draft lists.
// Every mutating call is a single conditional write against the user's
// document and returns the post-mutation draft list, so concurrent
// requests for the same user serialize in the store, not in process.
type DraftStore interface {
	EnsureUser(ctx context.Context, user models.User) (models.User, bool, error)
	SyncUser(ctx context.Context, email string, name string, image string) (models.User, error)
	GetUser(ctx context.Context, email string) (models.User, error)
	DeleteUser(ctx context.Context, email string) error

	AppendDraft(ctx context.Context, email string, text string) ([]models.Draft, error)
	UpdateDraftText(ctx context.Context, email string, draftId string, newText string) ([]models.Draft, error)
	RemoveDraft(ctx context.Context, email string, draftId string) ([]models.Draft, error)
	AttachFileId(ctx context.Context, email string, draftId string, fileId string) ([]models.Draft, error)
}

// Custom error types for clarity
var (
	ErrUserNotFound    = errors.New("user does not exist")
	ErrDraftNotFound   = errors.New("draft does not exist")
	ErrConditionFailed = errors.New("condition not met")
)
