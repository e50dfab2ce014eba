package ports

import (
	"context"

	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
)

// PermissionLevel is the privilege required to run an operator command.
type PermissionLevel int

const (
	// PermissionLevelModerator is required by all configuration commands.
	PermissionLevelModerator PermissionLevel = iota
)

// PermissionGate authorizes operator commands before any flow runs.
type PermissionGate interface {
	// Authorize returns nil if the user holds the level, or
	// domain.ErrNotAuthorized otherwise.
	Authorize(ctx context.Context, user domain.UserRef, level PermissionLevel) error
}
