package workouts

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrInvalidWorkout  = errors.New("invalid workout")
	ErrSaveInProgress  = errors.New("save already in progress")
	ErrIndexOutOfRange = errors.New("index out of range")
)

var BodyPart = struct {
	Chest     string
	Back      string
	Legs      string
	Biceps    string
	Triceps   string
	Shoulders string
}{
	Chest:     "chest",
	Back:      "back",
	Legs:      "legs",
	Biceps:    "biceps",
	Triceps:   "triceps",
	Shoulders: "shoulders",
}

var bodyParts = map[string]bool{
	BodyPart.Chest:     true,
	BodyPart.Back:      true,
	BodyPart.Legs:      true,
	BodyPart.Biceps:    true,
	BodyPart.Triceps:   true,
	BodyPart.Shoulders: true,
}

// ValidBodyPart accepts the known tags and the empty (untagged) one.
func ValidBodyPart(bodyPart string) bool {
	return bodyPart == "" || bodyParts[bodyPart]
}

func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// Set is one performed set. Within an exercise SetIndex is 1-based,
// sets hanging directly off a flat workout are 0-based.
type Set struct {
	ID           string    `json:"id"`
	WorkoutID    string    `json:"workout_id"`
	ExerciseID   string    `json:"exercise_id,omitempty"`
	ExerciseName string    `json:"exercise_name,omitempty"`
	SetIndex     int       `json:"set_index"`
	Reps         int       `json:"reps"`
	Weight       *float64  `json:"weight"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

type Exercise struct {
	ID         string    `json:"id"`
	WorkoutID  string    `json:"workout_id"`
	Name       string    `json:"name"`
	OrderIndex int       `json:"order_index"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	Sets       []Set     `json:"sets"`
}

// Workout is one session. It owns either Exercises (nested) or Sets (flat), never both.
type Workout struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Date      string     `json:"date"`
	BodyPart  string     `json:"body_part"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	Exercises []Exercise `json:"exercises"`
	Sets      []Set      `json:"sets,omitempty"`
}

func (w *Workout) IsFlat() bool {
	return len(w.Exercises) == 0 && len(w.Sets) > 0
}

// Clone returns a deep copy.
func (w Workout) Clone() Workout {
	c := w
	c.Exercises = nil
	if w.Exercises != nil {
		c.Exercises = make([]Exercise, len(w.Exercises))
		for i, ex := range w.Exercises {
			c.Exercises[i] = ex.clone()
		}
	}
	c.Sets = cloneSets(w.Sets)
	return c
}

func (ex Exercise) clone() Exercise {
	c := ex
	c.Sets = cloneSets(ex.Sets)
	return c
}

func (s Set) clone() Set {
	c := s
	if s.Weight != nil {
		weight := *s.Weight
		c.Weight = &weight
	}
	return c
}

func cloneSets(sets []Set) []Set {
	if sets == nil {
		return nil
	}
	c := make([]Set, len(sets))
	for i, s := range sets {
		c[i] = s.clone()
	}
	return c
}

// Renumber makes every index contiguous again and points children at their parents.
// Exercises are 0-based, their sets 1-based, flat sets 0-based.
func (w *Workout) Renumber() {
	for i := range w.Exercises {
		ex := &w.Exercises[i]
		ex.OrderIndex = i
		ex.WorkoutID = w.ID
		for j := range ex.Sets {
			ex.Sets[j].SetIndex = j + 1
			ex.Sets[j].WorkoutID = w.ID
			ex.Sets[j].ExerciseID = ex.ID
			ex.Sets[j].ExerciseName = ex.Name
		}
	}
	for i := range w.Sets {
		w.Sets[i].SetIndex = i
		w.Sets[i].WorkoutID = w.ID
		w.Sets[i].ExerciseID = ""
	}
}

// WithFreshIdentity gives the tree new ids and creation timestamps, keeping all field values.
func (w Workout) WithFreshIdentity(newID func() string, now time.Time) Workout {
	c := w.Clone()
	c.ID = newID()
	c.CreatedAt = now
	for i := range c.Exercises {
		c.Exercises[i].ID = newID()
		c.Exercises[i].CreatedAt = now
		for j := range c.Exercises[i].Sets {
			c.Exercises[i].Sets[j].ID = newID()
			c.Exercises[i].Sets[j].CreatedAt = now
		}
	}
	for i := range c.Sets {
		c.Sets[i].ID = newID()
		c.Sets[i].CreatedAt = now
	}
	c.Renumber()
	return c
}

func weightPtr(w float64) *float64 {
	return &w
}
