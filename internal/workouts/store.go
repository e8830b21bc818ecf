package workouts

import "context"

type ListFilter struct {
	UserID   string
	BodyPart string
	// exact day, or an inclusive From..To range; all formatted as DateLayout
	Date  string
	From  string
	To    string
	Limit int
}

// Store is the persistence gateway used by Service. Every call is independent,
// multi-step operations are not atomic.
type Store interface {
	// ListWorkouts returns full trees, most recent date first.
	ListWorkouts(ctx context.Context, filter ListFilter) ([]Workout, error)
	GetWorkout(ctx context.Context, id string) (*Workout, error)
	UpsertWorkout(ctx context.Context, w Workout) error
	// DeleteChildren removes all exercises and sets of the workout.
	DeleteChildren(ctx context.Context, workoutID string) error
	InsertExercise(ctx context.Context, ex Exercise) error
	InsertSet(ctx context.Context, s Set) error
	// DeleteWorkout cascades to exercises, sets and workout photos.
	DeleteWorkout(ctx context.Context, id string) error
}
