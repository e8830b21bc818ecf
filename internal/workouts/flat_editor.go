package workouts

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultFlatSetReps   = 8
	DefaultFlatSetWeight = 0.0
	MaxBulkSets          = 20
)

// FlatEditor edits a workout whose sets hang directly off it, each naming its exercise.
type FlatEditor struct {
	workout      Workout
	copyPrevious bool
	saving       atomic.Bool
	newID        func() string
	now          func() time.Time
}

func NewFlatEditor(userID, date string) *FlatEditor {
	return &FlatEditor{
		workout: Workout{
			UserID: userID,
			Date:   date,
			Sets:   []Set{},
		},
		copyPrevious: true,
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

func FlatEditorFor(w Workout) *FlatEditor {
	e := NewFlatEditor(w.UserID, w.Date)
	e.workout = w.Clone()
	e.workout.Exercises = nil
	if e.workout.Sets == nil {
		e.workout.Sets = []Set{}
	}
	e.workout.Renumber()
	return e
}

func (e *FlatEditor) Workout() Workout {
	return e.workout.Clone()
}

func (e *FlatEditor) SetHeader(date, bodyPart, notes string) error {
	if !ValidDate(date) {
		return fmt.Errorf("%w: date %q", ErrInvalidWorkout, date)
	}
	if !ValidBodyPart(bodyPart) {
		return fmt.Errorf("%w: body part %q", ErrInvalidWorkout, bodyPart)
	}
	e.workout.Date = date
	e.workout.BodyPart = bodyPart
	e.workout.Notes = notes
	return nil
}

// SetCopyPrevious toggles seeding new sets from the last one (name, reps and weight).
func (e *FlatEditor) SetCopyPrevious(on bool) {
	e.copyPrevious = on
}

func (e *FlatEditor) newSet() Set {
	set := Set{
		ID:        e.newID(),
		Reps:      DefaultFlatSetReps,
		Weight:    weightPtr(DefaultFlatSetWeight),
		CreatedAt: e.now(),
	}
	if e.copyPrevious && len(e.workout.Sets) > 0 {
		last := e.workout.Sets[len(e.workout.Sets)-1].clone()
		set.ExerciseName = last.ExerciseName
		set.Reps = last.Reps
		set.Weight = last.Weight
	}
	return set
}

// AddSet appends one set and returns its position.
func (e *FlatEditor) AddSet() int {
	e.workout.Sets = append(e.workout.Sets, e.newSet())
	e.workout.Renumber()
	return len(e.workout.Sets) - 1
}

// AddSets appends n sets, n clamped to 1..MaxBulkSets. Returns how many were added.
func (e *FlatEditor) AddSets(n int) int {
	n = max(1, min(MaxBulkSets, n))
	for i := 0; i < n; i++ {
		e.workout.Sets = append(e.workout.Sets, e.newSet())
	}
	e.workout.Renumber()
	return n
}

func (e *FlatEditor) set(i int) (*Set, error) {
	if i < 0 || i >= len(e.workout.Sets) {
		return nil, fmt.Errorf("%w: set %d of %d", ErrIndexOutOfRange, i, len(e.workout.Sets))
	}
	return &e.workout.Sets[i], nil
}

func (e *FlatEditor) UpdateSet(i int, exerciseName string, reps int, weight *float64) error {
	set, err := e.set(i)
	if err != nil {
		return err
	}
	if reps < 0 || (weight != nil && *weight < 0) {
		return fmt.Errorf("%w: negative reps or weight", ErrInvalidWorkout)
	}
	set.ExerciseName = exerciseName
	set.Reps = reps
	set.Weight = nil
	if weight != nil {
		set.Weight = weightPtr(*weight)
	}
	return nil
}

func (e *FlatEditor) DuplicateSet(i int) (int, error) {
	set, err := e.set(i)
	if err != nil {
		return 0, err
	}
	dup := set.clone()
	dup.ID = e.newID()
	dup.CreatedAt = e.now()
	e.workout.Sets = append(e.workout.Sets, dup)
	e.workout.Renumber()
	return len(e.workout.Sets) - 1, nil
}

func (e *FlatEditor) RemoveSet(i int) error {
	if _, err := e.set(i); err != nil {
		return err
	}
	e.workout.Sets = append(e.workout.Sets[:i], e.workout.Sets[i+1:]...)
	e.workout.Renumber()
	return nil
}

func (e *FlatEditor) Save(ctx context.Context, saver workoutSaver) (*Workout, error) {
	if !e.saving.CompareAndSwap(false, true) {
		return nil, ErrSaveInProgress
	}
	defer e.saving.Store(false)

	saved, err := saver.Save(ctx, e.workout.UserID, e.workout.Clone())
	if err != nil {
		return nil, err
	}
	e.workout = saved.Clone()
	return saved, nil
}
