package photos

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/2beens/workoutlog/internal/middleware"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/workouts"
	"github.com/2beens/workoutlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	maxUploadMemory = 32 << 20
	photosFormField = "photos"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=photos_test

type photosService interface {
	Upload(ctx context.Context, params UploadParams) ([]Photo, error)
	ForWorkout(ctx context.Context, userID, workoutID string) ([]Photo, error)
	Daily(ctx context.Context, userID, from, to string) ([]DailyGroup, error)
	RefreshURL(ctx context.Context, userID, id string) (string, error)
	Delete(ctx context.Context, userID, id string) error
}

type URLResponse struct {
	URL string `json:"url"`
}

type DeletePhotoResponse struct {
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	service photosService
}

func NewHandler(service photosService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	photosRouter := mainRouter.PathPrefix("/photos").Subrouter()
	photosRouter.HandleFunc("", handler.handleUpload).Methods("POST", "OPTIONS").Name("photos-upload")
	photosRouter.HandleFunc("/daily", handler.handleDaily).Methods("GET", "OPTIONS").Name("photos-daily")
	photosRouter.HandleFunc("/workout/{id}", handler.handleForWorkout).Methods("GET", "OPTIONS").Name("photos-workout")
	photosRouter.HandleFunc("/{id}/url", handler.handleRefreshURL).Methods("GET", "OPTIONS").Name("photo-url")
	photosRouter.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("photo-delete")
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidUpload):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotInGroup):
		http.Error(w, "error, "+err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrPhotoNotFound):
		http.Error(w, "photo not found", http.StatusNotFound)
	case errors.Is(err, workouts.ErrWorkoutNotFound):
		http.Error(w, "workout not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed: "+err.Error(), http.StatusInternalServerError)
	}
}

func readFile(fh *multipart.FileHeader) (UploadFile, error) {
	f, err := fh.Open()
	if err != nil {
		return UploadFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return UploadFile{}, err
	}
	return UploadFile{
		Name: fh.Filename,
		Data: data,
	}, nil
}

func (handler *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.photos.upload")
	defer span.End()

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		log.Tracef("upload photos, parse form: %s", err)
		http.Error(w, "error, multipart form expected", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Errorf("upload photos, remove temp files: %s", err)
		}
	}()

	fileHeaders := r.MultipartForm.File[photosFormField]
	if len(fileHeaders) == 0 {
		http.Error(w, "error, no photos selected", http.StatusBadRequest)
		return
	}

	files := make([]UploadFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		file, err := readFile(fh)
		if err != nil {
			log.Errorf("upload photos, read %s: %s", fh.Filename, err)
			http.Error(w, "error, failed to read "+fh.Filename, http.StatusBadRequest)
			return
		}
		files = append(files, file)
	}
	span.SetAttributes(attribute.Int("files", len(files)))

	uploaded, err := handler.service.Upload(ctx, UploadParams{
		UploaderID:   middleware.UserID(ctx),
		TargetUserID: r.FormValue("target_user_id"),
		WorkoutID:    r.FormValue("workout_id"),
		Date:         r.FormValue("date"),
		Files:        files,
	})
	if err != nil {
		if len(uploaded) > 0 {
			log.Warnf("upload photos: %d of %d stored before failure", len(uploaded), len(files))
		}
		writeServiceError(w, "upload photos", err)
		return
	}

	pkg.WriteJSON(w, uploaded, http.StatusCreated)
}

func (handler *Handler) handleForWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.photos.forWorkout")
	defer span.End()

	photos, err := handler.service.ForWorkout(ctx, middleware.UserID(ctx), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "list workout photos", err)
		return
	}
	if photos == nil {
		photos = []Photo{}
	}
	pkg.WriteJSON(w, photos, http.StatusOK)
}

func (handler *Handler) handleDaily(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.photos.daily")
	defer span.End()

	query := r.URL.Query()
	groups, err := handler.service.Daily(ctx, middleware.UserID(ctx), query.Get("from"), query.Get("to"))
	if err != nil {
		writeServiceError(w, "list daily photos", err)
		return
	}
	if groups == nil {
		groups = []DailyGroup{}
	}
	pkg.WriteJSON(w, groups, http.StatusOK)
}

func (handler *Handler) handleRefreshURL(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.photos.refreshURL")
	defer span.End()

	url, err := handler.service.RefreshURL(ctx, middleware.UserID(ctx), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "resolve photo url", err)
		return
	}
	pkg.WriteJSON(w, URLResponse{URL: url}, http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.photos.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if err := handler.service.Delete(ctx, middleware.UserID(ctx), id); err != nil {
		writeServiceError(w, "delete photo", err)
		return
	}
	pkg.WriteJSON(w, DeletePhotoResponse{DeletedID: id}, http.StatusOK)
}
