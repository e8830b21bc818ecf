package photos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/2beens/workoutlog/internal/storage"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/workouts"
	"github.com/2beens/workoutlog/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=photos

type photosRepo interface {
	Insert(ctx context.Context, p Photo) error
	Get(ctx context.Context, id string) (*Photo, error)
	ListForWorkout(ctx context.Context, workoutID string) ([]Photo, error)
	ListDaily(ctx context.Context, userID, from, to string) ([]Photo, error)
	UpdatePublicURL(ctx context.Context, id, publicURL string) error
	Delete(ctx context.Context, id string) error
}

type objectStore interface {
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	Delete(ctx context.Context, key string) error
}

type groupChecker interface {
	SameGroup(ctx context.Context, userA, userB string) (bool, error)
}

type workoutGetter interface {
	Get(ctx context.Context, userID, id string) (*workouts.Workout, error)
}

type UploadFile struct {
	Name string
	Data []byte
}

type UploadParams struct {
	UploaderID string
	// TargetUserID uploads on behalf of another member of the uploader's group.
	TargetUserID string
	// WorkoutID attaches the photos to a workout, otherwise they are daily photos for Date.
	WorkoutID string
	Date      string
	Files     []UploadFile
}

type Service struct {
	repo           photosRepo
	objects        objectStore
	groups         groupChecker
	workouts       workoutGetter
	optimizer      *Optimizer
	resolver       *Resolver
	metricsManager *metrics.Manager

	newID func() string
	now   func() time.Time
}

func NewService(
	repo photosRepo,
	objects objectStore,
	groups groupChecker,
	workouts workoutGetter,
	optimizer *Optimizer,
	resolver *Resolver,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:           repo,
		objects:        objects,
		groups:         groups,
		workouts:       workouts,
		optimizer:      optimizer,
		resolver:       resolver,
		metricsManager: metricsManager,
		newID:          uuid.NewString,
		now:            time.Now,
	}
}

// ObjectKey is "{owner}/{workout id or daily}/{date}/{random}.jpg".
func ObjectKey(ownerID, workoutID, date, name string) string {
	folder := workoutID
	if folder == "" {
		folder = DailyFolder
	}
	return fmt.Sprintf("%s/%s/%s/%s.jpg", ownerID, folder, date, name)
}

// Upload stores the files one after another. The first failure stops the upload;
// photos stored before it stay and are returned together with the error.
func (s *Service) Upload(ctx context.Context, params UploadParams) (_ []Photo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.photos.upload")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("uploader.id", params.UploaderID),
		attribute.String("target.id", params.TargetUserID),
		attribute.String("workout.id", params.WorkoutID),
		attribute.Int("files", len(params.Files)),
	)

	if params.UploaderID == "" {
		return nil, fmt.Errorf("%w: missing uploader", ErrInvalidUpload)
	}
	if len(params.Files) == 0 {
		return nil, fmt.Errorf("%w: no files selected", ErrInvalidUpload)
	}

	ownerID := params.UploaderID
	if params.TargetUserID != "" && params.TargetUserID != params.UploaderID {
		same, err := s.groups.SameGroup(ctx, params.UploaderID, params.TargetUserID)
		if err != nil {
			return nil, fmt.Errorf("check group: %w", err)
		}
		if !same {
			return nil, ErrNotInGroup
		}
		ownerID = params.TargetUserID
	}

	date := params.Date
	profile := DailyPhotoProfile
	if params.WorkoutID != "" {
		workout, err := s.workouts.Get(ctx, ownerID, params.WorkoutID)
		if err != nil {
			return nil, err
		}
		date = workout.Date
		profile = WorkoutPhotoProfile
	} else if !workouts.ValidDate(date) {
		return nil, fmt.Errorf("%w: invalid date [%s]", ErrInvalidUpload, date)
	}

	uploaded := make([]Photo, 0, len(params.Files))
	for _, file := range params.Files {
		photo, err := s.uploadOne(ctx, ownerID, params.UploaderID, params.WorkoutID, date, profile, file)
		if err != nil {
			return uploaded, fmt.Errorf("upload %s: %w", file.Name, err)
		}
		uploaded = append(uploaded, *photo)
	}

	return uploaded, nil
}

func (s *Service) uploadOne(
	ctx context.Context,
	ownerID, uploaderID, workoutID, date string,
	profile Profile,
	file UploadFile,
) (*Photo, error) {
	data, _ := s.optimizer.Optimize(file.Data, profile)

	key := ObjectKey(ownerID, workoutID, date, s.newID())
	if _, err := s.objects.Put(ctx, key, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("store object: %w", err)
	}

	url, err := s.resolver.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}

	photo := Photo{
		ID:          s.newID(),
		UserID:      ownerID,
		UploadedBy:  uploaderID,
		WorkoutID:   workoutID,
		StoragePath: key,
		PublicURL:   url,
		CreatedAt:   s.now(),
	}
	// a row references either a workout or a date, never both
	if workoutID == "" {
		photo.Date = date
	}
	if err := s.repo.Insert(ctx, photo); err != nil {
		if workoutID != "" && pkg.IsForeignKeyViolationError(err) {
			// the workout was deleted while uploading
			return nil, workouts.ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("insert photo: %w", err)
	}

	s.metricsManager.CounterPhotosUploaded.Inc()
	log.Debugf("photo %s uploaded by %s for %s: %s (%d bytes)", photo.ID, uploaderID, ownerID, key, len(data))
	return &photo, nil
}

// ForWorkout lists the workout's photos with freshly signed URLs.
func (s *Service) ForWorkout(ctx context.Context, userID, workoutID string) (_ []Photo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.photos.forWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := s.workouts.Get(ctx, userID, workoutID); err != nil {
		return nil, err
	}

	photos, err := s.repo.ListForWorkout(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, photos), nil
}

// Daily lists the user's daily photos grouped by date, newest first.
func (s *Service) Daily(ctx context.Context, userID, from, to string) (_ []DailyGroup, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.photos.daily")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	for _, date := range []string{from, to} {
		if date != "" && !workouts.ValidDate(date) {
			return nil, fmt.Errorf("%w: invalid date [%s]", ErrInvalidUpload, date)
		}
	}

	photos, err := s.repo.ListDaily(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return GroupDaily(s.resolve(ctx, photos)), nil
}

func (s *Service) resolve(ctx context.Context, photos []Photo) []Photo {
	resolved, err := s.resolver.ResolveMany(ctx, photos)
	if err != nil {
		log.Warnf("some photo urls could not be resolved: %s", err)
	}
	return resolved
}

func (s *Service) ownPhoto(ctx context.Context, userID, id string) (*Photo, error) {
	photo, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if photo.UserID != userID {
		return nil, ErrPhotoNotFound
	}
	return photo, nil
}

// RefreshURL re-resolves one photo URL, falling back to the placeholder.
// A fresh URL is also written back as the photo's public_url.
func (s *Service) RefreshURL(ctx context.Context, userID, id string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.photos.refreshURL")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	photo, err := s.ownPhoto(ctx, userID, id)
	if err != nil {
		return "", err
	}

	url := s.resolver.ResolveOrPlaceholder(ctx, photo.StoragePath)
	if url != s.resolver.placeholderURL && url != photo.PublicURL {
		if err := s.repo.UpdatePublicURL(ctx, id, url); err != nil {
			log.Errorf("store refreshed url of photo %s: %s", id, err)
		}
	}
	return url, nil
}

// Delete removes the stored object, then the row.
func (s *Service) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.photos.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	photo, err := s.ownPhoto(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.objects.Delete(ctx, photo.StoragePath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("delete object: %w", err)
	}
	return s.repo.Delete(ctx, id)
}
