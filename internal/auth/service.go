package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitzen/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	sessionKeyPrefix = "fitzen-session||"
	sessionsSetKey   = "fitzen-sessions"
)

var (
	ErrMissingToken   = errors.New("missing bearer token")
	ErrInvalidToken   = errors.New("invalid bearer token")
	ErrSessionRevoked = errors.New("session revoked or expired")
)

// Service issues signed tokens and keeps a registry of live sessions in redis,
// so a token can be revoked before it expires.
type Service struct {
	cfg         Config
	redisClient *redis.Client

	// injectable for unit tests
	NewSessionID func() string
	Now          func() time.Time
}

func NewService(cfg Config, redisClient *redis.Client) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	return &Service{
		cfg:          cfg,
		redisClient:  redisClient,
		NewSessionID: uuid.NewString,
		Now:          time.Now,
	}, nil
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// IssueToken creates a session for the user and returns its signed token.
func (s *Service) IssueToken(ctx context.Context, userID int) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.issueToken")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	now := s.Now()
	sessionID := s.NewSessionID()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		Issuer:    s.cfg.Issuer,
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.redisClient.Set(ctx, sessionKey(sessionID), now.Unix(), s.cfg.TTL).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	// keep track of sessions for the periodic cleanup
	if err := s.redisClient.SAdd(ctx, sessionsSetKey, sessionID).Err(); err != nil {
		return "", fmt.Errorf("register session: %w", err)
	}

	return token, nil
}

// Resolve validates the token and checks that its session is still live.
func (s *Service) Resolve(ctx context.Context, token string) (_ Identity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.resolve")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrMissingToken
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.Now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.ID == "" {
		return Identity{}, ErrInvalidToken
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return Identity{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	createdAt, err := s.sessionCreatedAt(ctx, claims.ID)
	if err != nil {
		return Identity{}, err
	}
	if s.Now().Sub(createdAt) > s.cfg.TTL {
		return Identity{}, ErrSessionRevoked
	}

	return Identity{
		UserID:    userID,
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *Service) sessionCreatedAt(ctx context.Context, sessionID string) (time.Time, error) {
	createdAtUnixStr, err := s.redisClient.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, ErrSessionRevoked
		}
		return time.Time{}, fmt.Errorf("get session: %w", err)
	}

	createdAtUnix, err := strconv.ParseInt(createdAtUnixStr, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse session created at: %w", err)
	}

	return time.Unix(createdAtUnix, 0), nil
}

// Logout revokes the session. It reports whether a live session was removed.
func (s *Service) Logout(ctx context.Context, sessionID string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.logout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	deleted, err := s.redisClient.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}

	// remove token from the set of sessions
	if err := s.redisClient.SRem(ctx, sessionsSetKey, sessionID).Err(); err != nil {
		return false, fmt.Errorf("unregister session: %w", err)
	}

	return deleted > 0, nil
}

// ScanAndClean runs through all registered sessions and removes the ones past
// their TTL, or whose key redis already expired. It returns the number removed.
func (s *Service) ScanAndClean(ctx context.Context) int {
	sessionIDs, err := s.redisClient.SMembers(ctx, sessionsSetKey).Result()
	if err != nil {
		log.Errorf("auth service, scan and clean, get sessions: %s", err)
		return 0
	}

	if len(sessionIDs) == 0 {
		log.Debugln("auth service, scan and clean abort, no sessions")
		return 0
	}

	log.Debugf("auth service, scan and clean [%d sessions] start ...", len(sessionIDs))
	var toRemove []string
	for _, sessionID := range sessionIDs {
		createdAt, err := s.sessionCreatedAt(ctx, sessionID)
		if err != nil {
			if errors.Is(err, ErrSessionRevoked) {
				toRemove = append(toRemove, sessionID)
				continue
			}
			log.Errorf("auth service, scan and clean session %s: %s", sessionID, err)
			continue
		}

		if s.Now().Sub(createdAt) > s.cfg.TTL {
			toRemove = append(toRemove, sessionID)
		}
	}

	removed := 0
	for _, sessionID := range toRemove {
		if err := s.redisClient.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
			log.Errorf("auth service, clean session %s: %s", sessionID, err)
			continue
		}
		if err := s.redisClient.SRem(ctx, sessionsSetKey, sessionID).Err(); err != nil {
			log.Errorf("auth service, clean session %s: %s", sessionID, err)
			continue
		}
		removed++
	}

	log.Debugf("auth service, scan and clean done, removed %d sessions", removed)
	return removed
}
