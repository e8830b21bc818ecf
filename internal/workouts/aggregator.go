package workouts

import (
	"fmt"
	"sort"
	"strings"
)

const (
	MaxSummaryLines  = 2
	EmptySummary     = "No exercises yet"
	UnnamedExercise  = "Unnamed exercise"
	summarySeparator = " · "
)

// Mode returns the most frequent value. On equal counts the value seen first wins.
// ok is false for an empty input.
func Mode[T comparable](values []T) (_ T, ok bool) {
	var best T
	if len(values) == 0 {
		return best, false
	}

	counts := make(map[T]int, len(values))
	var order []T
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	bestCount := 0
	for _, v := range order {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best, true
}

type ExerciseSummary struct {
	Name   string  `json:"name"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
	Sets   int     `json:"sets"`
}

func (s ExerciseSummary) String() string {
	return fmt.Sprintf("%s %d reps (%gkg) × %d sets", s.Name, s.Reps, s.Weight, s.Sets)
}

// summarizeSets computes rep and weight modes. A set without weight counts as 0 kg.
func summarizeSets(name string, sets []Set) (ExerciseSummary, bool) {
	if len(sets) == 0 {
		return ExerciseSummary{}, false
	}

	reps := make([]int, len(sets))
	weights := make([]float64, len(sets))
	for i, s := range sets {
		reps[i] = s.Reps
		if s.Weight != nil {
			weights[i] = *s.Weight
		}
	}

	repsMode, _ := Mode(reps)
	weightMode, _ := Mode(weights)
	return ExerciseSummary{
		Name:   name,
		Reps:   repsMode,
		Weight: weightMode,
		Sets:   len(sets),
	}, true
}

// SummarizeExercise returns false for an exercise with no sets.
func SummarizeExercise(ex Exercise) (ExerciseSummary, bool) {
	return summarizeSets(ex.Name, ex.Sets)
}

// ExerciseSummaries covers both layouts: nested exercises in order,
// flat sets grouped by exercise name in first-seen order.
func ExerciseSummaries(w Workout) []ExerciseSummary {
	var summaries []ExerciseSummary
	for _, ex := range w.Exercises {
		if s, ok := SummarizeExercise(ex); ok {
			summaries = append(summaries, s)
		}
	}

	if len(w.Sets) > 0 {
		var names []string
		byName := make(map[string][]Set)
		for _, s := range w.Sets {
			name := strings.TrimSpace(s.ExerciseName)
			if name == "" {
				name = UnnamedExercise
			}
			if _, seen := byName[name]; !seen {
				names = append(names, name)
			}
			byName[name] = append(byName[name], s)
		}
		for _, name := range names {
			if s, ok := summarizeSets(name, byName[name]); ok {
				summaries = append(summaries, s)
			}
		}
	}

	return summaries
}

// SummaryLines renders at most MaxSummaryLines exercise lines, plus "+N more" for the rest.
func SummaryLines(w Workout) []string {
	summaries := ExerciseSummaries(w)
	if len(summaries) == 0 {
		return []string{EmptySummary}
	}

	lines := make([]string, 0, MaxSummaryLines+1)
	for i, s := range summaries {
		if i == MaxSummaryLines {
			break
		}
		lines = append(lines, s.String())
	}
	if extra := len(summaries) - MaxSummaryLines; extra > 0 {
		lines = append(lines, fmt.Sprintf("+%d more", extra))
	}
	return lines
}

// Summarize is the one-line form of SummaryLines.
func Summarize(w Workout) string {
	return strings.Join(SummaryLines(w), summarySeparator)
}

type WorkoutSummary struct {
	Workout Workout  `json:"workout"`
	Lines   []string `json:"lines"`
	Summary string   `json:"summary"`
}

type DateGroup struct {
	Date     string           `json:"date"`
	Workouts []WorkoutSummary `json:"workouts"`
}

// GroupByDate groups workouts by date, most recent date first.
// Inside a group workouts keep their input order.
func GroupByDate(workouts []Workout) []DateGroup {
	var dates []string
	byDate := make(map[string][]WorkoutSummary)
	for _, w := range workouts {
		if _, seen := byDate[w.Date]; !seen {
			dates = append(dates, w.Date)
		}
		lines := SummaryLines(w)
		byDate[w.Date] = append(byDate[w.Date], WorkoutSummary{
			Workout: w,
			Lines:   lines,
			Summary: strings.Join(lines, summarySeparator),
		})
	}

	// ISO dates sort lexically
	sort.SliceStable(dates, func(i, j int) bool {
		return dates[i] > dates[j]
	})

	groups := make([]DateGroup, 0, len(dates))
	for _, date := range dates {
		groups = append(groups, DateGroup{
			Date:     date,
			Workouts: byDate[date],
		})
	}
	return groups
}
