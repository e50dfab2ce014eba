package ports

import (
	"context"

	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
)

// ThreadControl exposes the thread administration primitives the interview
// needs: closing a dead thread and relocating a finished one.
type ThreadControl interface {
	// Close terminates the thread with a visible reason, attributed to closer.
	Close(ctx context.Context, t domain.Thread, closer domain.UserRef, reason string) error

	// Relocate moves the thread's channel under dest and synchronizes its
	// permissions with the new parent.
	Relocate(ctx context.Context, t domain.Thread, dest domain.CategoryRef) error
}

// CategoryResolver resolves category IDs against the live channel tree.
type CategoryResolver interface {
	// ResolveCategory returns the category for an ID.
	// Returns domain.ErrCategoryNotFound if it no longer exists.
	ResolveCategory(ctx context.Context, id string) (*domain.CategoryRef, error)
}
