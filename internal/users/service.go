package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/2beens/fitzen/internal/telemetry/metrics"
	"github.com/2beens/fitzen/internal/telemetry/tracing"
	"github.com/2beens/fitzen/pkg"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=users_test

var ErrInvalidInput = errors.New("invalid input")

type usersRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type tokenIssuer interface {
	IssueToken(ctx context.Context, userID int) (string, error)
}

type RegisterParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Img      string `json:"img"`
}

type Service struct {
	repo           usersRepo
	tokens         tokenIssuer
	metricsManager *metrics.Manager

	// injectable for tests
	HashPasswordFunc func(password string) (string, error)
	Now              func() time.Time
}

func NewService(repo usersRepo, tokens tokenIssuer, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:             repo,
		tokens:           tokens,
		metricsManager:   metricsManager,
		HashPasswordFunc: pkg.HashPassword,
		Now:              time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (_ *User, token string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	name := strings.TrimSpace(params.Name)
	email := normalizeEmail(params.Email)
	if name == "" || email == "" || params.Password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}

	passwordHash, err := s.HashPasswordFunc(params.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Add(ctx, User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Img:          strings.TrimSpace(params.Img),
		CreatedAt:    s.Now(),
	})
	if err != nil {
		return nil, "", err
	}
	span.SetAttributes(attribute.Int("user.id", user.ID))

	token, err = s.tokens.IssueToken(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterSignups.Inc()
	}

	return user, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (_ *User, token string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
		if s.metricsManager != nil {
			s.metricsManager.CounterLogins.WithLabelValues(loginResult(err)).Inc()
		}
	}()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrWrongPassword
	}

	token, err = s.tokens.IssueToken(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

func (s *Service) Get(ctx context.Context, id int) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUserNotFound):
		return "unknown_user"
	case errors.Is(err, ErrWrongPassword):
		return "wrong_password"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
