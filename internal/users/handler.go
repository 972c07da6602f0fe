package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/fitzen/internal/auth"
	"github.com/2beens/fitzen/internal/middleware"
	"github.com/2beens/fitzen/internal/telemetry/metrics"
	"github.com/2beens/fitzen/internal/telemetry/tracing"
	"github.com/2beens/fitzen/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=users_test

type usersService interface {
	Register(ctx context.Context, params RegisterParams) (*User, string, error)
	Login(ctx context.Context, email, password string) (*User, string, error)
}

type sessionRevoker interface {
	Logout(ctx context.Context, sessionID string) (bool, error)
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type LogoutResponse struct {
	LoggedOut bool `json:"loggedOut"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Handler struct {
	service  usersService
	sessions sessionRevoker
}

func NewHandler(service usersService, sessions sessionRevoker) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
	}
}

func (handler *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	allowedPerMin int,
) {
	accountsRouter := router.NewRoute().Subrouter()
	accountsRouter.
		HandleFunc("/user/signup", handler.HandleSignup).
		Methods("POST", "OPTIONS").
		Name("signup")
	accountsRouter.
		HandleFunc("/user/signin", handler.HandleSignin).
		Methods("POST", "OPTIONS").
		Name("signin")
	accountsRouter.Use(middleware.RateLimit(rateLimiter, "accounts", allowedPerMin, metricsManager))

	router.HandleFunc("/user/signout", handler.HandleSignout).Methods("POST", "OPTIONS").Name("signout")
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON)
}

func (handler *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.signup")
	defer span.End()

	if !isJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var params RegisterParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Tracef("signup, unmarshal json params: %s", err)
		http.Error(w, "signup failed, invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := handler.service.Register(ctx, params)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrUserExists):
			http.Error(w, ErrUserExists.Error(), http.StatusConflict)
		default:
			log.Errorf("signup failed for [%s]: %s", params.Email, err)
			http.Error(w, "signup failed", http.StatusInternalServerError)
		}
		return
	}

	log.Debugf("new user registered: %d", user.ID)
	handler.writeAuthResponse(w, token, user, http.StatusCreated)
}

func (handler *Handler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.signin")
	defer span.End()

	if !isJSONRequest(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var loginReq loginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		log.Tracef("signin, unmarshal json params: %s", err)
		http.Error(w, "signin failed, invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := handler.service.Login(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrUserNotFound):
			http.Error(w, ErrUserNotFound.Error(), http.StatusNotFound)
		case errors.Is(err, ErrWrongPassword):
			log.Tracef("failed login attempt for: %s", loginReq.Email)
			http.Error(w, ErrWrongPassword.Error(), http.StatusForbidden)
		default:
			log.Errorf("signin failed for [%s]: %s", loginReq.Email, err)
			http.Error(w, "signin failed", http.StatusInternalServerError)
		}
		return
	}

	handler.writeAuthResponse(w, token, user, http.StatusOK)
}

func (handler *Handler) HandleSignout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.signout")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.sessions.Logout(ctx, identity.SessionID)
	if err != nil {
		log.Errorf("signout failed for user %d: %s", identity.UserID, err)
		http.Error(w, "signout failed", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(LogoutResponse{LoggedOut: loggedOut})
	if err != nil {
		log.Errorf("failed to marshal signout response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) writeAuthResponse(w http.ResponseWriter, token string, user *User, status int) {
	respJson, err := json.Marshal(AuthResponse{
		Token: token,
		User:  user,
	})
	if err != nil {
		log.Errorf("failed to marshal auth response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}
