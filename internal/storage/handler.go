package storage

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// PlaceholderPath serves the image shown for photos whose URL cannot be resolved.
const PlaceholderPath = "/storage/placeholder.svg"

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="320" height="240" viewBox="0 0 320 240">` +
	`<rect width="320" height="240" fill="#e5e7eb"/>` +
	`<path d="M110 170l40-50 30 36 20-24 30 38z" fill="#9ca3af"/>` +
	`<circle cx="205" cy="90" r="14" fill="#9ca3af"/>` +
	`</svg>`

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=storage_test

type objectOpener interface {
	Open(ctx context.Context, key string) (*os.File, *ObjectInfo, error)
}

type tokenVerifier interface {
	Verify(tokenString string) (string, error)
}

type Handler struct {
	store    objectOpener
	verifier tokenVerifier
}

func NewHandler(store objectOpener, verifier tokenVerifier) *Handler {
	return &Handler{
		store:    store,
		verifier: verifier,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/storage/object/{token}", handler.HandleGetObject).Methods("GET", "OPTIONS").Name("get-object")
	r.HandleFunc(PlaceholderPath, handler.HandleGetPlaceholder).Methods("GET", "OPTIONS").Name("photo-placeholder")
}

func (handler *Handler) HandleGetPlaceholder(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write([]byte(placeholderSVG)); err != nil {
		log.Errorf("write photo placeholder: %s", err)
	}
}

// HandleGetObject serves the object named by a signed token.
func (handler *Handler) HandleGetObject(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.storage.object")
	defer span.End()

	token := mux.Vars(r)["token"]
	if token == "" {
		http.Error(w, "error, token empty", http.StatusBadRequest)
		return
	}

	key, err := handler.verifier.Verify(token)
	if err != nil {
		log.Tracef("get object, verify token: %s", err)
		http.Error(w, "link invalid or expired", http.StatusForbidden)
		return
	}
	span.SetAttributes(attribute.String("object.key", key))

	f, info, err := handler.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Errorf("get object [%s]: %s", key, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("close object [%s]: %s", key, err)
		}
	}()

	w.Header().Set("Cache-Control", "private, max-age=3600")
	http.ServeContent(w, r, path.Base(info.Key), info.UpdatedAt, f)
}
