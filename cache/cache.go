package cache

import (
	"context"

	"github.com/enkv/draftpad/models"
)

// DraftCache holds a short-lived copy of each user's draft list so repeated
// list requests skip the store. Every successful mutation rewrites the entry
// with the list the store returned; the cache is best effort and never the
// source of truth.
type DraftCache interface {
	GetDrafts(ctx context.Context, email string) ([]models.Draft, bool, error)
	SetDrafts(ctx context.Context, email string, drafts []models.Draft) error
	InvalidateUser(ctx context.Context, email string) error
}
