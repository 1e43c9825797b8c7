package core

import (
	"context"
	"fmt"
	"slices"

	"rentalcore/pkg/domain"
)

// actor resolves the acting user from ctx against the live user records so a
// stale session snapshot cannot act after its account is removed or disabled.
func (s *Service) actor(ctx context.Context, roles ...domain.Role) (domain.User, error) {
	snapshot, ok := domain.ActorFromContext(ctx)
	if !ok {
		return domain.User{}, ErrUnauthenticated
	}
	user, ok := s.repos.Users.FindByID(ctx, snapshot.ID)
	if !ok {
		return domain.User{}, fmt.Errorf("%w: user %s no longer exists", ErrUnauthenticated, snapshot.ID)
	}
	if !user.IsActive {
		return domain.User{}, fmt.Errorf("%w: user %s is inactive", ErrForbidden, user.ID)
	}
	if len(roles) > 0 && !slices.Contains(roles, user.Role) {
		return domain.User{}, fmt.Errorf("%w: role %s may not perform this operation", ErrForbidden, user.Role)
	}
	return user, nil
}

// owns reports whether actor may manage records belonging to ownerID.
func owns(actor domain.User, ownerID string) bool {
	return actor.Role == domain.RoleAdmin || actor.ID == ownerID
}

func requireOwner(actor domain.User, ownerID string, entity domain.EntityType, id string) error {
	if owns(actor, ownerID) {
		return nil
	}
	return fmt.Errorf("%w: %s %s belongs to %s", ErrForbidden, entity, id, ownerID)
}
