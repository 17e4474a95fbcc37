package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/digitalloot/storefront/services/admin/internal/models"
	"github.com/digitalloot/storefront/services/admin/internal/repo"
)

const MaxMessageLen = 600

var (
	contactEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nineDigits   = regexp.MustCompile(`^\d{9}$`)
)

type ContactService struct {
	Repo *repo.GormRepo
}

type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// NormalizePhone strips everything but digits and prefixes local nine digit
// numbers with the 51 country code. Numbers already starting with 51 are
// kept as they are.
func NormalizePhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if strings.HasPrefix(digits, "51") {
		return digits
	}
	if nineDigits.MatchString(digits) {
		return "51" + digits
	}
	return digits
}

func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*models.ContactMessage, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	msg := strings.TrimSpace(in.Message)

	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	case !contactEmail.MatchString(email):
		return nil, fmt.Errorf("%w: email is invalid", ErrValidation)
	case msg == "":
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	case utf8.RuneCountInString(msg) > MaxMessageLen:
		return nil, fmt.Errorf("%w: message exceeds %d characters", ErrValidation, MaxMessageLen)
	}

	m := &models.ContactMessage{
		Name:    name,
		Email:   strings.ToLower(email),
		Phone:   NormalizePhone(in.Phone),
		Subject: strings.TrimSpace(in.Subject),
		Message: msg,
	}
	if err := s.Repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ContactService) List(ctx context.Context, offset, limit int) (int64, []models.ContactMessage, error) {
	return s.Repo.ListMessages(ctx, offset, limit)
}
