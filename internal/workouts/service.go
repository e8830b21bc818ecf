package workouts

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// TemplatesLimit is how many recent workouts are offered as templates.
const TemplatesLimit = 10

type Service struct {
	store          Store
	metricsManager *metrics.Manager

	// user|workout keys with a save in flight
	saving sync.Map

	newID func() string
	now   func() time.Time
}

func NewService(store Store, metricsManager *metrics.Manager) *Service {
	return &Service{
		store:          store,
		metricsManager: metricsManager,
		newID:          uuid.NewString,
		now:            time.Now,
	}
}

func (s *Service) today() string {
	return s.now().Format(DateLayout)
}

// Save stores the whole tree of w for the user. A workout with an id must already
// exist and belong to the user; its children are replaced wholesale.
// The steps are not atomic: on failure the first error is returned and
// whatever was written before it stays.
func (s *Service) Save(ctx context.Context, userID string, w Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("workout.id", w.ID),
	)

	if userID == "" {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidWorkout)
	}

	key := saveKey(userID, w.ID)
	if _, busy := s.saving.LoadOrStore(key, struct{}{}); busy {
		return nil, ErrSaveInProgress
	}
	defer s.saving.Delete(key)

	w = w.Clone()
	w.UserID = userID
	if err := validate(w); err != nil {
		return nil, err
	}

	isEdit := w.ID != ""
	if isEdit {
		existing, err := s.store.GetWorkout(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		if existing.UserID != userID {
			return nil, ErrWorkoutNotFound
		}
		w.CreatedAt = existing.CreatedAt
	} else {
		w.ID = s.newID()
		w.CreatedAt = s.now()
	}

	s.normalize(&w)
	if err := s.persist(ctx, w, isEdit); err != nil {
		return nil, err
	}

	s.metricsManager.CounterWorkoutsSaved.Inc()
	log.Debugf("workout %s saved for user %s: %d exercises, %d flat sets", w.ID, userID, len(w.Exercises), len(w.Sets))

	return &w, nil
}

// saveKey is per user and workout. All new workouts of a user share one key,
// so a double submitted draft cannot create the workout twice.
func saveKey(userID, workoutID string) string {
	if workoutID == "" {
		workoutID = "new"
	}
	return userID + "|" + workoutID
}

func validate(w Workout) error {
	if !ValidDate(w.Date) {
		return fmt.Errorf("%w: invalid date [%s]", ErrInvalidWorkout, w.Date)
	}
	if !ValidBodyPart(w.BodyPart) {
		return fmt.Errorf("%w: unknown body part [%s]", ErrInvalidWorkout, w.BodyPart)
	}
	if len(w.Exercises) > 0 && len(w.Sets) > 0 {
		return fmt.Errorf("%w: both exercises and flat sets given", ErrInvalidWorkout)
	}

	checkSet := func(set Set) error {
		if set.Reps < 0 {
			return fmt.Errorf("%w: negative reps", ErrInvalidWorkout)
		}
		if set.Weight != nil && *set.Weight < 0 {
			return fmt.Errorf("%w: negative weight", ErrInvalidWorkout)
		}
		return nil
	}
	for _, ex := range w.Exercises {
		for _, set := range ex.Sets {
			if err := checkSet(set); err != nil {
				return err
			}
		}
	}
	for _, set := range w.Sets {
		if err := checkSet(set); err != nil {
			return err
		}
	}
	return nil
}

// normalize drops unnamed nested exercises, keeps every flat set, fills missing identities and renumbers.
func (s *Service) normalize(w *Workout) {
	now := s.now()

	exercises := make([]Exercise, 0, len(w.Exercises))
	for _, ex := range w.Exercises {
		if blank(ex.Name) {
			continue
		}
		if ex.ID == "" {
			ex.ID = s.newID()
		}
		if ex.CreatedAt.IsZero() {
			ex.CreatedAt = now
		}
		if ex.Sets == nil {
			ex.Sets = []Set{}
		}
		for j := range ex.Sets {
			if ex.Sets[j].ID == "" {
				ex.Sets[j].ID = s.newID()
			}
			if ex.Sets[j].CreatedAt.IsZero() {
				ex.Sets[j].CreatedAt = now
			}
		}
		exercises = append(exercises, ex)
	}
	w.Exercises = exercises

	if len(w.Sets) > 0 {
		sets := make([]Set, 0, len(w.Sets))
		for _, set := range w.Sets {
			set.ExerciseName = strings.TrimSpace(set.ExerciseName)
			if set.ID == "" {
				set.ID = s.newID()
			}
			if set.CreatedAt.IsZero() {
				set.CreatedAt = now
			}
			sets = append(sets, set)
		}
		w.Sets = sets
	}

	w.Renumber()
}

// persist writes header, then exercises, then sets, one row at a time.
func (s *Service) persist(ctx context.Context, w Workout, isEdit bool) error {
	if err := s.store.UpsertWorkout(ctx, w); err != nil {
		return fmt.Errorf("upsert workout: %w", err)
	}

	if isEdit {
		if err := s.store.DeleteChildren(ctx, w.ID); err != nil {
			return fmt.Errorf("delete old exercises and sets: %w", err)
		}
	}

	for _, ex := range w.Exercises {
		if err := s.store.InsertExercise(ctx, ex); err != nil {
			return fmt.Errorf("insert exercise [%s]: %w", ex.Name, err)
		}
	}
	for _, ex := range w.Exercises {
		for _, set := range ex.Sets {
			if err := s.store.InsertSet(ctx, set); err != nil {
				return fmt.Errorf("insert set %d of [%s]: %w", set.SetIndex, ex.Name, err)
			}
		}
	}
	for _, set := range w.Sets {
		if err := s.store.InsertSet(ctx, set); err != nil {
			return fmt.Errorf("insert set %d [%s]: %w", set.SetIndex, set.ExerciseName, err)
		}
	}

	return nil
}

// Get returns the workout only when it belongs to the user.
func (s *Service) Get(ctx context.Context, userID, id string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	w, err := s.store.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, ErrWorkoutNotFound
	}
	return w, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if filter.UserID == "" {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidWorkout)
	}
	if !ValidBodyPart(filter.BodyPart) {
		return nil, fmt.Errorf("%w: unknown body part [%s]", ErrInvalidWorkout, filter.BodyPart)
	}
	for _, date := range []string{filter.Date, filter.From, filter.To} {
		if date != "" && !ValidDate(date) {
			return nil, fmt.Errorf("%w: invalid date [%s]", ErrInvalidWorkout, date)
		}
	}

	return s.store.ListWorkouts(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteWorkout(ctx, id)
}

// Templates returns the most recent workouts of the user.
func (s *Service) Templates(ctx context.Context, userID string) ([]Workout, error) {
	return s.List(ctx, ListFilter{
		UserID: userID,
		Limit:  TemplatesLimit,
	})
}

// ApplyTemplate returns an unsaved draft for date built from one of the user's workouts.
func (s *Service) ApplyTemplate(ctx context.Context, userID, templateID, date string) (*Workout, error) {
	if date == "" {
		date = s.today()
	}
	if !ValidDate(date) {
		return nil, fmt.Errorf("%w: invalid date [%s]", ErrInvalidWorkout, date)
	}

	template, err := s.Get(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}

	editor := NewEditor(userID, date)
	editor.newID = s.newID
	editor.now = s.now
	editor.ApplyTemplate(*template)

	draft := editor.Workout()
	return &draft, nil
}

// CopyWorkout stores a copy of the workout dated today.
func (s *Service) CopyWorkout(ctx context.Context, userID, id string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.copy")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	src, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	return s.copyToToday(ctx, *src)
}

// CopyDay copies every workout of the date to today, oldest first. It stops at the
// first failure and returns the copies made so far together with the error.
func (s *Service) CopyDay(ctx context.Context, userID, date string) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.copyDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("date", date))

	if !ValidDate(date) {
		return nil, fmt.Errorf("%w: invalid date [%s]", ErrInvalidWorkout, date)
	}

	day, err := s.store.ListWorkouts(ctx, ListFilter{
		UserID: userID,
		Date:   date,
	})
	if err != nil {
		return nil, err
	}

	copies := make([]Workout, 0, len(day))
	for i := len(day) - 1; i >= 0; i-- {
		c, err := s.copyToToday(ctx, day[i])
		if err != nil {
			return copies, fmt.Errorf("copy workout %s: %w", day[i].ID, err)
		}
		copies = append(copies, *c)
	}

	return copies, nil
}

func (s *Service) copyToToday(ctx context.Context, src Workout) (*Workout, error) {
	c := src.WithFreshIdentity(s.newID, s.now())
	c.Date = s.today()
	c.Renumber()

	if err := s.persist(ctx, c, false); err != nil {
		return nil, err
	}

	s.metricsManager.CounterWorkoutsCopied.Inc()
	return &c, nil
}
