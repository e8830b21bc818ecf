package workouts

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var errInjected = errors.New("injected store failure")

// memStore is an in-memory Store. failUpsertAt / failInsertSetAt make the n-th call (1-based) fail.
type memStore struct {
	mu        sync.Mutex
	workouts  map[string]Workout
	exercises map[string]Exercise
	sets      map[string]Set

	upserts         int
	insertedSets    int
	failUpsertAt    int
	failInsertSetAt int
	calls           []string
}

func newMemStore() *memStore {
	return &memStore{
		workouts:  make(map[string]Workout),
		exercises: make(map[string]Exercise),
		sets:      make(map[string]Set),
	}
}

func (m *memStore) tree(w Workout) Workout {
	w.Exercises = []Exercise{}
	w.Sets = nil
	for _, ex := range m.exercises {
		if ex.WorkoutID == w.ID {
			ex.Sets = []Set{}
			w.Exercises = append(w.Exercises, ex)
		}
	}
	sort.Slice(w.Exercises, func(i, j int) bool {
		return w.Exercises[i].OrderIndex < w.Exercises[j].OrderIndex
	})
	for _, s := range m.sets {
		if s.WorkoutID != w.ID {
			continue
		}
		if s.ExerciseID == "" {
			w.Sets = append(w.Sets, s)
			continue
		}
		for i := range w.Exercises {
			if w.Exercises[i].ID == s.ExerciseID {
				w.Exercises[i].Sets = append(w.Exercises[i].Sets, s)
			}
		}
	}
	for i := range w.Exercises {
		sets := w.Exercises[i].Sets
		sort.Slice(sets, func(a, b int) bool { return sets[a].SetIndex < sets[b].SetIndex })
	}
	sort.Slice(w.Sets, func(a, b int) bool { return w.Sets[a].SetIndex < w.Sets[b].SetIndex })
	return w
}

func (m *memStore) ListWorkouts(_ context.Context, filter ListFilter) ([]Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "list")

	var result []Workout
	for _, w := range m.workouts {
		if w.UserID != filter.UserID {
			continue
		}
		if filter.BodyPart != "" && w.BodyPart != filter.BodyPart {
			continue
		}
		if filter.Date != "" && w.Date != filter.Date {
			continue
		}
		if filter.From != "" && w.Date < filter.From {
			continue
		}
		if filter.To != "" && w.Date > filter.To {
			continue
		}
		result = append(result, m.tree(w))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date > result[j].Date
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *memStore) GetWorkout(_ context.Context, id string) (*Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "get")

	w, ok := m.workouts[id]
	if !ok {
		return nil, ErrWorkoutNotFound
	}
	w = m.tree(w)
	return &w, nil
}

func (m *memStore) UpsertWorkout(_ context.Context, w Workout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "upsert")

	m.upserts++
	if m.upserts == m.failUpsertAt {
		return errInjected
	}
	w.Exercises = nil
	w.Sets = nil
	m.workouts[w.ID] = w
	return nil
}

func (m *memStore) DeleteChildren(_ context.Context, workoutID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "deleteChildren")

	for id, ex := range m.exercises {
		if ex.WorkoutID == workoutID {
			delete(m.exercises, id)
		}
	}
	for id, s := range m.sets {
		if s.WorkoutID == workoutID {
			delete(m.sets, id)
		}
	}
	return nil
}

func (m *memStore) InsertExercise(_ context.Context, ex Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "insertExercise")

	ex.Sets = nil
	m.exercises[ex.ID] = ex
	return nil
}

func (m *memStore) InsertSet(_ context.Context, s Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "insertSet")

	m.insertedSets++
	if m.insertedSets == m.failInsertSetAt {
		return errInjected
	}
	m.sets[s.ID] = s
	return nil
}

func (m *memStore) DeleteWorkout(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "delete")

	if _, ok := m.workouts[id]; !ok {
		return ErrWorkoutNotFound
	}
	delete(m.workouts, id)
	for exID, ex := range m.exercises {
		if ex.WorkoutID == id {
			delete(m.exercises, exID)
		}
	}
	for setID, s := range m.sets {
		if s.WorkoutID == id {
			delete(m.sets, setID)
		}
	}
	return nil
}
