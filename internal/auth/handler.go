package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/workoutlog/internal/middleware"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

type authService interface {
	Register(ctx context.Context, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID, displayName string) (*User, error)
}

type sessionCache interface {
	Invalidate(token string)
}

type eventSubscriber interface {
	Subscribe(userID string) (<-chan SessionEvent, func())
}

type Handler struct {
	service        authService
	sessionCache   sessionCache
	events         eventSubscriber
	metricsManager *metrics.Manager
	upgrader       websocket.Upgrader
}

func NewHandler(
	service authService,
	sessionCache sessionCache,
	events eventSubscriber,
	allowedOrigins []string,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		service:        service,
		sessionCache:   sessionCache,
		events:         events,
		metricsManager: metricsManager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) {
	// rate limit the credential endpoints to prevent abuse
	limited := middleware.RateLimit(rateLimiter, "auth", allowedPerMin, metricsManager)

	authRouter := mainRouter.PathPrefix("/auth").Subrouter()
	authRouter.
		Handle("/register", limited(http.HandlerFunc(handler.handleRegister))).
		Methods("POST", "OPTIONS").Name("register")
	authRouter.
		Handle("/login", limited(http.HandlerFunc(handler.handleLogin))).
		Methods("POST", "OPTIONS").Name("login")
	authRouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "OPTIONS").Name("logout")
	authRouter.
		HandleFunc("/me", handler.handleMe).
		Methods("GET", "OPTIONS").Name("me")
	authRouter.
		HandleFunc("/profile", handler.handleUpdateProfile).
		Methods("PUT", "OPTIONS").Name("update-profile")
	authRouter.
		HandleFunc("/events", handler.handleEvents).
		Methods("GET").Name("session-events")
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func readCredentials(r *http.Request) (credentialsRequest, error) {
	var req credentialsRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, err
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	return credentialsRequest{
		Email:    r.Form.Get("email"),
		Password: r.Form.Get("password"),
	}, nil
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.register")
	defer span.End()

	creds, err := readCredentials(r)
	if err != nil {
		log.Errorf("register, read credentials: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	session, err := handler.service.Register(ctx, creds.Email, creds.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrEmailTaken):
			http.Error(w, "error, email already registered", http.StatusConflict)
		default:
			log.Errorf("register failed: %s", err)
			http.Error(w, "register failed: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	span.SetAttributes(attribute.String("user.id", session.User.ID))
	log.Debugf("new user registered: %s", session.User.ID)
	pkg.WriteJSON(w, session, http.StatusCreated)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	creds, err := readCredentials(r)
	if err != nil {
		log.Errorf("login, read credentials: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	if creds.Email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return
	}
	if creds.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	session, err := handler.service.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, ErrWrongCredentials) {
			http.Error(w, "error, wrong credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("login failed: %s", err)
		http.Error(w, "login failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("user.id", session.User.ID))
	log.Trace("new login success")
	pkg.WriteJSON(w, session, http.StatusOK)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	authToken := middleware.Token(ctx)
	if authToken == "" {
		authToken = r.Header.Get(middleware.TokenHeader)
	}
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if err := handler.service.Logout(ctx, authToken); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		log.Errorf("logout failed: %s", err)
		http.Error(w, "logout failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	handler.sessionCache.Invalidate(authToken)

	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.me")
	defer span.End()

	userID := middleware.UserID(ctx)
	if userID == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	user, err := handler.service.Me(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("get user %s: %s", userID, err)
		http.Error(w, "get user failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, user, http.StatusOK)
}

func (handler *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.updateProfile")
	defer span.End()

	userID := middleware.UserID(ctx)
	if userID == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "content type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update profile, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := handler.service.UpdateProfile(ctx, userID, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDisplayName):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrUserNotFound):
			http.Error(w, "user not found", http.StatusNotFound)
		default:
			log.Errorf("update profile %s: %s", userID, err)
			http.Error(w, "update profile failed: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	pkg.WriteJSON(w, user, http.StatusOK)
}
