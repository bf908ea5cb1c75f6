package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

type Config struct {
	Secret   string        `env:"SUPABASE_JWT_SECRET"`
	Audience string        `env:"SUPABASE_JWT_AUDIENCE" envDefault:"authenticated"`
	Leeway   time.Duration `env:"SUPABASE_JWT_LEEWAY" envDefault:"30s"`
}

// Claims is the subset of a Supabase access token this service relies on.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	gojwt.RegisteredClaims
}

// Service parses and issues HS256 tokens.
type Service struct {
	key    []byte
	parser *gojwt.Parser
	aud    string
}

// New creates a Service from cfg. The secret is required.
func New(cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSigningKey
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Audience != "" {
		opts = append(opts, gojwt.WithAudience(cfg.Audience))
	}

	return &Service{
		key:    []byte(cfg.Secret),
		parser: gojwt.NewParser(opts...),
		aud:    cfg.Audience,
	}, nil
}

// Parse verifies the signature and registered claims of token and returns
// its claims. The email claim must be present.
func (s *Service) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	claims.Email = strings.ToLower(strings.TrimSpace(claims.Email))
	if claims.Email == "" {
		return nil, ErrMissingEmail
	}
	return claims, nil
}

// Issue signs a token for email valid for ttl. Used by tests and local tooling;
// production tokens come from Supabase Auth.
func (s *Service) Issue(subject, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if s.aud != "" {
		claims.Audience = gojwt.ClaimStrings{s.aud}
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return token, nil
}
