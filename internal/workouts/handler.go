package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/workoutlog/internal/middleware"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsService interface {
	Save(ctx context.Context, userID string, w Workout) (*Workout, error)
	Get(ctx context.Context, userID, id string) (*Workout, error)
	List(ctx context.Context, filter ListFilter) ([]Workout, error)
	Delete(ctx context.Context, userID, id string) error
	Templates(ctx context.Context, userID string) ([]Workout, error)
	ApplyTemplate(ctx context.Context, userID, templateID, date string) (*Workout, error)
	CopyWorkout(ctx context.Context, userID, id string) (*Workout, error)
	CopyDay(ctx context.Context, userID, date string) ([]Workout, error)
}

type DeleteWorkoutResponse struct {
	DeletedID string `json:"deletedId"`
}

type CopyDayResponse struct {
	Copies []Workout `json:"copies"`
}

type Handler struct {
	service workoutsService
	now     func() time.Time
}

func NewHandler(service workoutsService) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	workoutsRouter := mainRouter.PathPrefix("/workouts").Subrouter()
	// fixed paths first, they would otherwise match {id}
	workoutsRouter.HandleFunc("/templates", handler.handleTemplates).Methods("GET", "OPTIONS").Name("workout-templates")
	workoutsRouter.HandleFunc("/templates/{id}/apply", handler.handleApplyTemplate).Methods("POST", "OPTIONS").Name("workout-template-apply")
	workoutsRouter.HandleFunc("/copy-day/{date}", handler.handleCopyDay).Methods("POST", "OPTIONS").Name("workouts-copy-day")
	workoutsRouter.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS").Name("workouts-list")
	workoutsRouter.HandleFunc("", handler.handleCreate).Methods("POST", "OPTIONS").Name("workouts-create")
	workoutsRouter.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS").Name("workout-get")
	workoutsRouter.HandleFunc("/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("workout-update")
	workoutsRouter.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("workout-delete")
	workoutsRouter.HandleFunc("/{id}/copy", handler.handleCopy).Methods("POST", "OPTIONS").Name("workout-copy")

	mainRouter.HandleFunc("/calendar/{year}/{month}", handler.handleCalendar).Methods("GET", "OPTIONS").Name("calendar")
}

// writeServiceError maps service errors to status codes. Backend failures carry their message.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidWorkout):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrWorkoutNotFound):
		http.Error(w, "workout not found", http.StatusNotFound)
	case errors.Is(err, ErrSaveInProgress):
		http.Error(w, "error, save already in progress", http.StatusConflict)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed: "+err.Error(), http.StatusInternalServerError)
	}
}

func decodeWorkout(r *http.Request) (Workout, error) {
	var workout Workout
	if r.Header.Get("Content-Type") != "application/json" {
		return workout, errors.New("invalid content type")
	}
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		return workout, err
	}
	return workout, nil
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	userID := middleware.UserID(ctx)
	query := r.URL.Query()
	filter := ListFilter{
		UserID:   userID,
		BodyPart: query.Get("body_part"),
		Date:     query.Get("date"),
		From:     query.Get("from"),
		To:       query.Get("to"),
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			http.Error(w, "error, invalid limit", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	workouts, err := handler.service.List(ctx, filter)
	if err != nil {
		writeServiceError(w, "list workouts", err)
		return
	}
	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))

	if query.Get("grouped") == "true" {
		pkg.WriteJSON(w, GroupByDate(workouts), http.StatusOK)
		return
	}
	if workouts == nil {
		workouts = []Workout{}
	}
	pkg.WriteJSON(w, workouts, http.StatusOK)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	workout, err := handler.service.Get(ctx, middleware.UserID(ctx), id)
	if err != nil {
		writeServiceError(w, "get workout", err)
		return
	}
	pkg.WriteJSON(w, workout, http.StatusOK)
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.create")
	defer span.End()

	workout, err := decodeWorkout(r)
	if err != nil {
		log.Tracef("new workout, decode: %s", err)
		http.Error(w, "error, invalid workout: "+err.Error(), http.StatusBadRequest)
		return
	}
	workout.ID = ""

	saved, err := handler.service.Save(ctx, middleware.UserID(ctx), workout)
	if err != nil {
		writeServiceError(w, "save workout", err)
		return
	}

	log.Debugf("new workout saved: %s", saved.ID)
	pkg.WriteJSON(w, saved, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	workout, err := decodeWorkout(r)
	if err != nil {
		log.Tracef("update workout, decode: %s", err)
		http.Error(w, "error, invalid workout: "+err.Error(), http.StatusBadRequest)
		return
	}
	workout.ID = mux.Vars(r)["id"]

	saved, err := handler.service.Save(ctx, middleware.UserID(ctx), workout)
	if err != nil {
		writeServiceError(w, "save workout", err)
		return
	}
	pkg.WriteJSON(w, saved, http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if err := handler.service.Delete(ctx, middleware.UserID(ctx), id); err != nil {
		writeServiceError(w, "delete workout", err)
		return
	}
	pkg.WriteJSON(w, DeleteWorkoutResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) handleTemplates(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.templates")
	defer span.End()

	templates, err := handler.service.Templates(ctx, middleware.UserID(ctx))
	if err != nil {
		writeServiceError(w, "list templates", err)
		return
	}
	if templates == nil {
		templates = []Workout{}
	}
	pkg.WriteJSON(w, templates, http.StatusOK)
}

func (handler *Handler) handleApplyTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.applyTemplate")
	defer span.End()

	templateID := mux.Vars(r)["id"]
	draft, err := handler.service.ApplyTemplate(ctx, middleware.UserID(ctx), templateID, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, "apply template", err)
		return
	}
	pkg.WriteJSON(w, draft, http.StatusOK)
}

func (handler *Handler) handleCopy(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.copy")
	defer span.End()

	copied, err := handler.service.CopyWorkout(ctx, middleware.UserID(ctx), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "copy workout", err)
		return
	}
	pkg.WriteJSON(w, copied, http.StatusCreated)
}

func (handler *Handler) handleCopyDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.copyDay")
	defer span.End()

	date := mux.Vars(r)["date"]
	copies, err := handler.service.CopyDay(ctx, middleware.UserID(ctx), date)
	if err != nil {
		if len(copies) > 0 {
			log.Warnf("copy day %s: %d workouts copied before failure", date, len(copies))
		}
		writeServiceError(w, "copy day", err)
		return
	}
	pkg.WriteJSON(w, CopyDayResponse{Copies: copies}, http.StatusCreated)
}

func (handler *Handler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.calendar")
	defer span.End()

	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		http.Error(w, "error, year NaN", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil {
		http.Error(w, "error, month NaN", http.StatusBadRequest)
		return
	}

	from, to, err := MonthBounds(year, month)
	if err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	// the grid shows a few days of the neighbouring months too
	firstDay, _ := time.Parse(DateLayout, from)
	lastDay, _ := time.Parse(DateLayout, to)
	workouts, err := handler.service.List(ctx, ListFilter{
		UserID: middleware.UserID(ctx),
		From:   firstDay.AddDate(0, 0, -6).Format(DateLayout),
		To:     lastDay.AddDate(0, 0, 6).Format(DateLayout),
	})
	if err != nil {
		writeServiceError(w, "list workouts", err)
		return
	}

	grid, err := MonthGrid(year, month, workouts, handler.now())
	if err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}
	pkg.WriteJSON(w, grid, http.StatusOK)
}
