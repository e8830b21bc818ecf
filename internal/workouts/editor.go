package workouts

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultSetReps   = 10
	DefaultSetWeight = 20.0
)

type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

type workoutSaver interface {
	Save(ctx context.Context, userID string, w Workout) (*Workout, error)
}

// Editor holds one nested workout (exercises owning sets) while it is being edited.
// Nothing is persisted until Save. Every structural edit renumbers the tree.
type Editor struct {
	workout       Workout
	repeatLastSet bool
	saving        atomic.Bool
	newID         func() string
	now           func() time.Time
}

// NewEditor starts a new, unsaved workout.
func NewEditor(userID, date string) *Editor {
	return &Editor{
		workout: Workout{
			UserID:    userID,
			Date:      date,
			Exercises: []Exercise{},
		},
		repeatLastSet: true,
		newID:         uuid.NewString,
		now:           time.Now,
	}
}

// EditorFor edits an existing workout. The editor works on its own copy.
func EditorFor(w Workout) *Editor {
	e := NewEditor(w.UserID, w.Date)
	e.workout = w.Clone()
	if e.workout.Exercises == nil {
		e.workout.Exercises = []Exercise{}
	}
	e.workout.Renumber()
	return e
}

// Workout returns a copy of the current state.
func (e *Editor) Workout() Workout {
	return e.workout.Clone()
}

func (e *Editor) IsNew() bool {
	return e.workout.ID == ""
}

// SetRepeatLastSet controls whether a new set copies reps and weight of the exercise's last set.
func (e *Editor) SetRepeatLastSet(on bool) {
	e.repeatLastSet = on
}

func (e *Editor) SetHeader(date, bodyPart, notes string) error {
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

func (e *Editor) exercise(i int) (*Exercise, error) {
	if i < 0 || i >= len(e.workout.Exercises) {
		return nil, fmt.Errorf("%w: exercise %d of %d", ErrIndexOutOfRange, i, len(e.workout.Exercises))
	}
	return &e.workout.Exercises[i], nil
}

func (e *Editor) set(exIdx, setIdx int) (*Exercise, *Set, error) {
	ex, err := e.exercise(exIdx)
	if err != nil {
		return nil, nil, err
	}
	if setIdx < 0 || setIdx >= len(ex.Sets) {
		return nil, nil, fmt.Errorf("%w: set %d of %d", ErrIndexOutOfRange, setIdx, len(ex.Sets))
	}
	return ex, &ex.Sets[setIdx], nil
}

// AddExercise appends an exercise and returns its position.
func (e *Editor) AddExercise(name string) int {
	e.workout.Exercises = append(e.workout.Exercises, Exercise{
		ID:        e.newID(),
		Name:      name,
		CreatedAt: e.now(),
		Sets:      []Set{},
	})
	e.workout.Renumber()
	return len(e.workout.Exercises) - 1
}

func (e *Editor) RenameExercise(i int, name string) error {
	ex, err := e.exercise(i)
	if err != nil {
		return err
	}
	ex.Name = name
	e.workout.Renumber()
	return nil
}

func (e *Editor) SetExerciseNotes(i int, notes string) error {
	ex, err := e.exercise(i)
	if err != nil {
		return err
	}
	ex.Notes = notes
	return nil
}

func (e *Editor) RemoveExercise(i int) error {
	if _, err := e.exercise(i); err != nil {
		return err
	}
	e.workout.Exercises = append(e.workout.Exercises[:i], e.workout.Exercises[i+1:]...)
	e.workout.Renumber()
	return nil
}

// MoveExercise swaps the exercise with its neighbour. Moving past either end is a no-op.
func (e *Editor) MoveExercise(i int, dir Direction) error {
	if _, err := e.exercise(i); err != nil {
		return err
	}
	j := i + int(dir)
	if j < 0 || j >= len(e.workout.Exercises) {
		return nil
	}
	exercises := e.workout.Exercises
	exercises[i], exercises[j] = exercises[j], exercises[i]
	e.workout.Renumber()
	return nil
}

// AddSet appends a set to the exercise and returns its position.
func (e *Editor) AddSet(exIdx int) (int, error) {
	ex, err := e.exercise(exIdx)
	if err != nil {
		return 0, err
	}

	set := Set{
		ID:        e.newID(),
		Reps:      DefaultSetReps,
		Weight:    weightPtr(DefaultSetWeight),
		CreatedAt: e.now(),
	}
	if e.repeatLastSet && len(ex.Sets) > 0 {
		last := ex.Sets[len(ex.Sets)-1].clone()
		set.Reps = last.Reps
		set.Weight = last.Weight
	}

	ex.Sets = append(ex.Sets, set)
	e.workout.Renumber()
	return len(ex.Sets) - 1, nil
}

func (e *Editor) UpdateSet(exIdx, setIdx, reps int, weight *float64, notes string) error {
	_, set, err := e.set(exIdx, setIdx)
	if err != nil {
		return err
	}
	if reps < 0 || (weight != nil && *weight < 0) {
		return fmt.Errorf("%w: negative reps or weight", ErrInvalidWorkout)
	}
	set.Reps = reps
	set.Weight = nil
	if weight != nil {
		set.Weight = weightPtr(*weight)
	}
	set.Notes = notes
	return nil
}

// DuplicateSet appends a copy of the set at the tail of its exercise.
// The copy keeps reps, weight and notes and gets a new identity.
func (e *Editor) DuplicateSet(exIdx, setIdx int) (int, error) {
	ex, set, err := e.set(exIdx, setIdx)
	if err != nil {
		return 0, err
	}

	dup := set.clone()
	dup.ID = e.newID()
	dup.CreatedAt = e.now()
	ex.Sets = append(ex.Sets, dup)
	e.workout.Renumber()
	return len(ex.Sets) - 1, nil
}

func (e *Editor) RemoveSet(exIdx, setIdx int) error {
	ex, _, err := e.set(exIdx, setIdx)
	if err != nil {
		return err
	}
	ex.Sets = append(ex.Sets[:setIdx], ex.Sets[setIdx+1:]...)
	e.workout.Renumber()
	return nil
}

// ApplyTemplate replaces the body part and the exercise tree with a clone of the template.
// Workout notes are cleared, exercise and set notes are kept.
func (e *Editor) ApplyTemplate(template Workout) {
	now := e.now()
	e.workout.BodyPart = template.BodyPart
	e.workout.Notes = ""

	exercises := make([]Exercise, 0, len(template.Exercises))
	for _, src := range template.Exercises {
		ex := src.clone()
		ex.ID = e.newID()
		ex.CreatedAt = now
		for j := range ex.Sets {
			ex.Sets[j].ID = e.newID()
			ex.Sets[j].CreatedAt = now
		}
		if ex.Sets == nil {
			ex.Sets = []Set{}
		}
		exercises = append(exercises, ex)
	}
	if len(exercises) == 0 {
		exercises = append(exercises, Exercise{
			ID:        e.newID(),
			CreatedAt: now,
			Sets:      []Set{},
		})
	}
	e.workout.Exercises = exercises
	e.workout.Renumber()
}

// Save persists the whole tree at once. A second call while one is pending fails with ErrSaveInProgress.
func (e *Editor) Save(ctx context.Context, saver workoutSaver) (*Workout, error) {
	if !e.saving.CompareAndSwap(false, true) {
		return nil, ErrSaveInProgress
	}
	defer e.saving.Store(false)

	saved, err := saver.Save(ctx, e.workout.UserID, e.workout.Clone())
	if err != nil {
		return nil, err
	}

	// further saves edit the stored workout
	e.workout = saved.Clone()
	return saved, nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
