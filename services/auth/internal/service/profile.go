package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/digitalloot/storefront/pkg/events"
	"github.com/digitalloot/storefront/pkg/logging"
	"github.com/digitalloot/storefront/services/auth/internal/models"
	"github.com/digitalloot/storefront/services/auth/internal/repo"
)

const maxBioLen = 500

type ProfileService struct {
	Repo      *repo.GormRepo
	Publisher events.Publisher
}

// ProfileUpdate carries the editable contact fields. Nil fields are left as
// they are; BirthDate uses the 2006-01-02 layout and "" clears it.
type ProfileUpdate struct {
	FullName  *string
	Phone     *string
	Address   *string
	City      *string
	Country   *string
	Bio       *string
	BirthDate *string
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*models.Profile, error) {
	updates := map[string]any{}

	set := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	if in.FullName != nil && strings.TrimSpace(*in.FullName) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if in.Bio != nil && len([]rune(*in.Bio)) > maxBioLen {
		return nil, fmt.Errorf("%w: bio longer than %d characters", ErrValidation, maxBioLen)
	}
	set("full_name", in.FullName)
	set("phone", in.Phone)
	set("address", in.Address)
	set("city", in.City)
	set("country", in.Country)
	set("bio", in.Bio)

	if in.BirthDate != nil {
		if *in.BirthDate == "" {
			updates["birth_date"] = nil
		} else {
			d, err := time.Parse(time.DateOnly, *in.BirthDate)
			if err != nil {
				return nil, fmt.Errorf("%w: birth_date must be YYYY-MM-DD", ErrValidation)
			}
			if d.After(time.Now()) {
				return nil, fmt.Errorf("%w: birth_date in the future", ErrValidation)
			}
			updates["birth_date"] = d
		}
	}

	if len(updates) == 0 {
		return s.Get(ctx, id)
	}
	p, err := s.Repo.UpdateProfile(ctx, id, updates)
	if err != nil {
		return nil, notFound(err)
	}
	logging.FromContext(ctx).Info("profile_updated", "user_id", id, "fields", len(updates))
	return p, nil
}

func (s *ProfileService) UpdatePreferences(ctx context.Context, id uuid.UUID, prefs models.Preferences) (*models.Profile, error) {
	switch prefs.Theme {
	case "dark", "light":
	default:
		return nil, fmt.Errorf("%w: theme must be dark or light", ErrValidation)
	}
	if prefs.Language == "" {
		prefs.Language = models.DefaultPreferences().Language
	}
	p, err := s.Repo.UpdateProfile(ctx, id, map[string]any{"preferences": prefs})
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *ProfileService) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (*models.Profile, error) {
	avatarURL = strings.TrimSpace(avatarURL)
	u, err := url.Parse(avatarURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: avatar must be an http(s) url", ErrValidation)
	}
	p, err := s.Repo.UpdateProfile(ctx, id, map[string]any{"avatar_url": avatarURL})
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *ProfileService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProfile(ctx, id); err != nil {
		return notFound(err)
	}
	if s.Publisher != nil {
		ev, err := events.NewEvent(events.UserDeleted, id.String(), nil)
		if err == nil {
			err = s.Publisher.PublishEvent(ctx, events.TopicUsers, "user-"+id.String(), ev)
		}
		if err != nil {
			logging.FromContext(ctx).Warn("publish_event_failed", "type", events.UserDeleted, "error", err)
		}
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: profile", ErrNotFound)
	}
	return err
}
