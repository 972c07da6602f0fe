package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/fitzen/internal/auth"
	"github.com/2beens/fitzen/internal/telemetry/tracing"
	"github.com/2beens/fitzen/internal/users"
	"github.com/2beens/fitzen/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsService interface {
	Ingest(ctx context.Context, userID int, raw string) ([]WorkoutRecord, error)
	Dashboard(ctx context.Context, userID int) (*DashboardSummary, error)
	WorkoutsByDate(ctx context.Context, userID int, day time.Time) (*WorkoutsByDate, error)
}

type AddWorkoutsRequest struct {
	WorkoutString string `json:"workoutString"`
}

type AddWorkoutsResponse struct {
	Message  string          `json:"message"`
	Count    int             `json:"count"`
	Workouts []WorkoutRecord `json:"workouts"`
}

type Handler struct {
	service workoutsService

	// Location is used to read the date query param; server local time by default.
	Location *time.Location
	Now      func() time.Time
}

func NewHandler(service workoutsService) *Handler {
	return &Handler{
		service:  service,
		Location: time.Local,
		Now:      time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/user/dashboard", handler.HandleDashboard).Methods("GET", "OPTIONS").Name("get-dashboard")
	router.HandleFunc("/user/workout", handler.HandleGetByDate).Methods("GET", "OPTIONS").Name("get-workouts-by-date")
	router.HandleFunc("/user/workout", handler.HandleAdd).Methods("POST", "OPTIONS").Name("add-workouts")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.add")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req AddWorkoutsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add workouts, unmarshal json params: %s", err)
		http.Error(w, "add workouts failed, invalid request body", http.StatusBadRequest)
		return
	}

	records, err := handler.service.Ingest(ctx, identity.UserID, req.WorkoutString)
	if err != nil {
		handler.writeServiceError(w, "add workouts", identity.UserID, err)
		return
	}

	handler.writeJSON(w, AddWorkoutsResponse{
		Message:  "workouts added successfully",
		Count:    len(records),
		Workouts: records,
	}, http.StatusCreated)
}

func (handler *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.dashboard")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	summary, err := handler.service.Dashboard(ctx, identity.UserID)
	if err != nil {
		handler.writeServiceError(w, "dashboard", identity.UserID, err)
		return
	}

	handler.writeJSON(w, summary, http.StatusOK)
}

func (handler *Handler) HandleGetByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.getByDate")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	day := handler.Now().In(handler.Location)
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		var err error
		day, err = time.ParseInLocation(time.DateOnly, dateParam, handler.Location)
		if err != nil {
			log.Tracef("get workouts by date, bad date [%s]: %s", dateParam, err)
			badDateErr := &ValidationError{Err: ErrInvalidDate, Detail: "expected YYYY-MM-DD"}
			http.Error(w, badDateErr.Error(), http.StatusBadRequest)
			return
		}
	}

	res, err := handler.service.WorkoutsByDate(ctx, identity.UserID, day)
	if err != nil {
		handler.writeServiceError(w, "get workouts by date", identity.UserID, err)
		return
	}

	handler.writeJSON(w, res, http.StatusOK)
}

func (handler *Handler) writeServiceError(w http.ResponseWriter, op string, userID int, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, users.ErrUserNotFound):
		http.Error(w, users.ErrUserNotFound.Error(), http.StatusNotFound)
	default:
		log.Errorf("%s failed for user %d: %s", op, userID, err)
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}

func (handler *Handler) writeJSON(w http.ResponseWriter, v any, status int) {
	respJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}
