package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/digitalloot/storefront/pkg/events"
	pkghash "github.com/digitalloot/storefront/pkg/hash"
	jwthelp "github.com/digitalloot/storefront/pkg/jwt"
	"github.com/digitalloot/storefront/pkg/logging"
	"github.com/digitalloot/storefront/pkg/tokens"
	"github.com/digitalloot/storefront/services/auth/internal/models"
	"github.com/digitalloot/storefront/services/auth/internal/repo"
)

const (
	minPasswordLen = 6
	defaultCountry = "Perú"

	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthService struct {
	Repo      *repo.GormRepo
	Publisher events.Publisher

	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	Profile      *models.Profile
}

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func AvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=6366f1&color=fff"
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Profile, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	switch {
	case in.FullName == "":
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	case !ValidEmail(in.Email):
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	case len(in.Password) < minPasswordLen:
		return nil, fmt.Errorf("%w: password must have at least %d characters", ErrValidation, minPasswordLen)
	case in.Password != in.ConfirmPassword:
		return nil, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	pwHash, err := pkghash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p := &models.Profile{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: pwHash,
		FullName:     in.FullName,
		Role:         tokens.RoleUser,
		AvatarURL:    AvatarURL(in.FullName),
		Country:      defaultCountry,
		Preferences:  models.DefaultPreferences(),
	}
	if err := s.Repo.CreateProfileIfNotExists(ctx, p); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	s.publish(ctx, events.UserRegistered, p)
	l.Info("register_success", "user_id", p.ID)
	return p, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	p, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
		}
		return nil, err
	}
	if !pkghash.CheckPassword(p.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	now := time.Now().UTC()
	if err := s.Repo.TouchLastLogin(ctx, p.ID, now); err != nil {
		l.Warn("touch_last_login_failed", "user_id", p.ID, "error", err)
	} else {
		p.LastLoginAt = &now
	}

	res, refresh, err := s.issue(p)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefresh(ctx, refresh); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}
	return res, nil
}

// Refresh rotates a refresh token. The role in the new access token is read
// from the profile so promotions apply on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrUnauthorized)
	}

	p, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: account removed", ErrUnauthorized)
		}
		return nil, err
	}

	res, next, err := s.issue(p)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefresh(ctx, claims.ID, jwthelp.Sha256Hex(refreshToken), next); err != nil {
		if errors.Is(err, repo.ErrRefreshInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return nil, err
	}
	return res, nil
}

func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	return s.Repo.RevokeRefresh(ctx, jwthelp.Sha256Hex(refreshToken))
}

func (s *AuthService) issue(p *models.Profile) (*LoginResult, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(s.accessTTL())
	refreshExp := now.Add(s.refreshTTL())

	access, err := tokens.SignAccess(s.AccessSecret, p.ID.String(), p.Role, p.Email, accessExp)
	if err != nil {
		return nil, nil, fmt.Errorf("sign access token: %w", err)
	}
	jti := jwthelp.NewJTI()
	refresh, err := tokens.SignRefresh(s.RefreshSecret, p.ID.String(), jti, refreshExp)
	if err != nil {
		return nil, nil, fmt.Errorf("sign refresh token: %w", err)
	}

	stored := &models.RefreshToken{
		UserID:    p.ID,
		JTI:       jti,
		TokenHash: jwthelp.Sha256Hex(refresh),
		ExpiresAt: refreshExp.UTC(),
	}
	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		Profile:      p,
	}, stored, nil
}

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return DefaultAccessTTL
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return DefaultRefreshTTL
}

func (s *AuthService) publish(ctx context.Context, typ string, p *models.Profile) {
	if s.Publisher == nil {
		return
	}
	ev, err := events.NewEvent(typ, p.ID.String(), map[string]any{"email": p.Email, "role": p.Role})
	if err == nil {
		err = s.Publisher.PublishEvent(ctx, events.TopicUsers, "user-"+p.ID.String(), ev)
	}
	if err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "type", typ, "error", err)
	}
}
