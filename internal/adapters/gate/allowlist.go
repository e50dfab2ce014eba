// Package gate implements the permission gate from a static allowlist.
package gate

import (
	"context"

	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/ports"
)

// Allowlist authorizes moderator commands for a fixed set of user IDs.
type Allowlist struct {
	moderators map[string]struct{}
}

var _ ports.PermissionGate = (*Allowlist)(nil)

// NewAllowlist builds a gate from the configured moderator IDs.
func NewAllowlist(moderatorIDs []string) *Allowlist {
	mods := make(map[string]struct{}, len(moderatorIDs))
	for _, id := range moderatorIDs {
		mods[id] = struct{}{}
	}
	return &Allowlist{moderators: mods}
}

// Authorize implements ports.PermissionGate.
func (a *Allowlist) Authorize(ctx context.Context, user domain.UserRef, level ports.PermissionLevel) error {
	if _, ok := a.moderators[user.ID]; ok {
		return nil
	}
	return domain.ErrNotAuthorized
}
