package entitlement

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tier is a named access level.
type Tier string

const (
	TierFree     Tier = "free"
	TierBasic    Tier = "basic"
	TierAdvanced Tier = "advanced"
)

func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierBasic, TierAdvanced:
		return true
	}
	return false
}

func (t Tier) String() string { return string(t) }

// ParseTier parses a stored tier label.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
	return t, nil
}

// Entitlement is the stored access record of a single user.
type Entitlement struct {
	ID                uuid.UUID
	Email             string
	Name              string
	IsPaid            bool
	Tier              Tier
	SubscriptionStart *time.Time // recurring plans only
	SubscriptionEnd   *time.Time // recurring plans only
	StripeCustomerID  string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Free returns the unpaid record for email.
func Free(email string) Entitlement {
	email = NormalizeEmail(email)
	return Entitlement{
		Email: email,
		Name:  NameFromEmail(email),
		Tier:  TierFree,
	}
}

// Entitled returns a paid record. Period bounds are truncated to dates and
// may be nil for one-time grants.
func Entitled(email string, tier Tier, start, end *time.Time) Entitlement {
	email = NormalizeEmail(email)
	return Entitlement{
		Email:             email,
		Name:              NameFromEmail(email),
		IsPaid:            true,
		Tier:              tier,
		SubscriptionStart: dateOnly(start),
		SubscriptionEnd:   dateOnly(end),
	}
}

// Validate checks the email and the paid/tier pairing.
func (e Entitlement) Validate() error {
	if err := ValidateEmail(e.Email); err != nil {
		return err
	}
	if !e.Tier.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTier, e.Tier)
	}
	if e.IsPaid == (e.Tier == TierFree) {
		return fmt.Errorf("%w: is_paid=%t tier=%s", ErrInconsistentEntitlement, e.IsPaid, e.Tier)
	}
	return nil
}

// Active reports whether the record grants paid access.
func (e Entitlement) Active() bool {
	return e.IsPaid && e.Tier != TierFree
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail requires a bare RFC 5322 address.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: empty", ErrInvalidEmail)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}

// NameFromEmail returns the local part of email, used as the display name of
// lazily created records.
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
