package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/digitalloot/storefront/pkg/events"
	"github.com/digitalloot/storefront/pkg/logging"
	"github.com/digitalloot/storefront/pkg/tokens"
	"github.com/digitalloot/storefront/services/admin/internal/models"
	"github.com/digitalloot/storefront/services/admin/internal/repo"
)

type UserAdmin struct {
	Repo      *repo.GormRepo
	Publisher events.Publisher
}

type GlobalStats struct {
	Users    int64 `json:"users"`
	Admins   int64 `json:"admins"`
	Products int64 `json:"products"`
	Orders   int64 `json:"orders"`
}

func (s *UserAdmin) List(ctx context.Context, f repo.UserFilter, offset, limit int) (int64, []models.User, error) {
	return s.Repo.ListUsers(ctx, f, offset, limit)
}

func (s *UserAdmin) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// Promote grants the admin role to the user identified by ref, a uuid or an
// email address.
func (s *UserAdmin) Promote(ctx context.Context, actor uuid.UUID, ref string) (*models.User, error) {
	return s.setRole(ctx, actor, ref, tokens.RoleAdmin)
}

// Demote returns the user to the plain user role. Admins cannot demote
// themselves.
func (s *UserAdmin) Demote(ctx context.Context, actor uuid.UUID, ref string) (*models.User, error) {
	return s.setRole(ctx, actor, ref, tokens.RoleUser)
}

func (s *UserAdmin) Stats(ctx context.Context) (*GlobalStats, error) {
	c, err := s.Repo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &GlobalStats{Users: c.Users, Admins: c.Admins, Products: c.Products, Orders: c.Orders}, nil
}

func (s *UserAdmin) setRole(ctx context.Context, actor uuid.UUID, ref, role string) (*models.User, error) {
	u, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if role == tokens.RoleUser && u.ID == actor {
		return nil, fmt.Errorf("%w: you cannot remove your own admin role", ErrForbidden)
	}
	if u.Role == role {
		return u, nil
	}

	if err := s.Repo.SetRole(ctx, u.ID, role); err != nil {
		return nil, notFound(err, "user")
	}
	prev := u.Role
	u.Role = role

	logging.FromContext(ctx).Info("user_role_changed", "user_id", u.ID, "from", prev, "to", role, "by", actor)
	if s.Publisher != nil {
		ev, err := events.NewEvent(events.UserRoleChanged, u.ID.String(), map[string]any{"email": u.Email, "role": role, "by": actor})
		if err == nil {
			err = s.Publisher.PublishEvent(ctx, events.TopicUsers, "user-"+u.ID.String(), ev)
		}
		if err != nil {
			logging.FromContext(ctx).Warn("publish_event_failed", "type", events.UserRoleChanged, "error", err)
		}
	}
	return u, nil
}

func (s *UserAdmin) resolve(ctx context.Context, ref string) (*models.User, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: user id or email required", ErrValidation)
	}

	if id, err := uuid.Parse(ref); err == nil {
		return s.Get(ctx, id)
	}
	if !strings.Contains(ref, "@") {
		return nil, fmt.Errorf("%w: %q is neither a user id nor an email", ErrValidation, ref)
	}
	u, err := s.Repo.GetUserByEmail(ctx, ref)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}
