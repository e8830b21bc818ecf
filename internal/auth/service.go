package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth

const (
	DefaultTTL        = 24 * 7 * time.Hour
	MinPasswordLength = 6
	sessionKeyPrefix  = "workoutlog-session||"
	tokensSetKey      = "workoutlog-sessions"
	tokenLength       = 35
)

var (
	ErrWrongCredentials   = errors.New("wrong credentials")
	ErrInvalidCredentials = errors.New("email or password invalid")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidDisplayName = errors.New("display name cannot be empty")
)

type usersRepo interface {
	GetByEmail(ctx context.Context, email string) (*User, string, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user User, passwordHash string) (*User, error)
	UpsertProfile(ctx context.Context, user User) error
	EnsureGroupKey(ctx context.Context, userID string) (string, error)
	UpdateDisplayName(ctx context.Context, userID, displayName string) (*User, error)
}

type eventPublisher interface {
	Publish(event SessionEvent)
}

type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type Service struct {
	users       usersRepo
	events      eventPublisher
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
	// password hashing is slow on purpose, tests swap it
	HashPasswordFunc func(password string) (string, error)
	now              func() time.Time
}

func NewService(
	users usersRepo,
	events eventPublisher,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		users:            users,
		events:           events,
		ttl:              ttl,
		redisClient:      redisClient,
		RandStringFunc:   pkg.GenerateRandomString,
		HashPasswordFunc: pkg.HashPassword,
		now:              time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: bad email", ErrInvalidCredentials)
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password shorter than %d", ErrInvalidCredentials, MinPasswordLength)
	}
	return nil
}

// Register creates the account and signs it in.
func (s *Service) Register(ctx context.Context, email, password string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authService.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	passwordHash, err := s.HashPasswordFunc(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, User{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: DefaultDisplayName(email),
		CreatedAt:   s.now(),
	}, passwordHash)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	return s.signIn(ctx, user)
}

func (s *Service) Login(ctx context.Context, email, password string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authService.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrWrongCredentials
	}

	user, passwordHash, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Tracef("failed login attempt, unknown email: %s", email)
			return nil, ErrWrongCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !pkg.CheckPasswordHash(password, passwordHash) {
		log.Tracef("failed login attempt, wrong password for: %s", user.ID)
		return nil, ErrWrongCredentials
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	return s.signIn(ctx, user)
}

// signIn upserts the profile, makes sure the user has a group key, then opens a session.
func (s *Service) signIn(ctx context.Context, user *User) (*Session, error) {
	if err := s.users.UpsertProfile(ctx, User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: DefaultDisplayName(user.Email),
	}); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	groupKey, err := s.users.EnsureGroupKey(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("ensure group key: %w", err)
	}
	user.GroupKey = groupKey
	if user.DisplayName == "" {
		user.DisplayName = DefaultDisplayName(user.Email)
	}

	token, err := s.newSession(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	s.events.Publish(SessionEvent{
		Type:      EventSignedIn,
		UserID:    user.ID,
		User:      user,
		Timestamp: s.now(),
	})

	return &Session{
		Token: token,
		User:  user,
	}, nil
}

func (s *Service) newSession(ctx context.Context, userID string) (string, error) {
	token, err := s.RandStringFunc(tokenLength)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	cmdHSet := s.redisClient.HSet(ctx, sessionKey, "user_id", userID, "created_at", s.now().Unix())
	if err := cmdHSet.Err(); err != nil {
		return "", err
	}

	// add token to list of sessions
	cmdSAdd := s.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", err
	}

	return token, nil
}

// Logout removes the session and notifies the user's subscribers.
func (s *Service) Logout(ctx context.Context, token string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authService.logout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sessionKey := sessionKeyPrefix + token
	userID, err := s.redisClient.HGet(ctx, sessionKey, "user_id").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		return err
	}

	if err := s.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return err
	}

	// remove token from the list of sessions
	if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return err
	}

	s.events.Publish(SessionEvent{
		Type:      EventSignedOut,
		UserID:    userID,
		Timestamp: s.now(),
	})

	return nil
}

func (s *Service) Me(ctx context.Context, userID string) (*User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID, displayName string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authService.updateProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrInvalidDisplayName
	}

	user, err := s.users.UpdateDisplayName(ctx, userID, displayName)
	if err != nil {
		return nil, err
	}

	s.events.Publish(SessionEvent{
		Type:      EventProfileUpdated,
		UserID:    userID,
		User:      user,
		Timestamp: s.now(),
	})

	return user, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (s *Service) ScanAndClean(ctx context.Context) {
	cmd := s.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		createdAtUnixStr, err := s.redisClient.HGet(ctx, sessionKeyPrefix+token, "created_at").Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// dangling token, the session is already gone
				toRemove = append(toRemove, token)
				continue
			}
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		createdAtUnix, err := strconv.ParseInt(createdAtUnixStr, 10, 64)
		if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		if s.now().Sub(time.Unix(createdAtUnix, 0)) > s.ttl {
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		if err := s.redisClient.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}

		// remove token from the list of sessions
		if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}
	}

	log.Debugf("=> auth service, scan and clean done, removed %d sessions", len(toRemove))
}
