package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/workouts"

	log "github.com/sirupsen/logrus"
)

const (
	// WorkoutsFileChunkSize is the number of workout trees in one backup file.
	WorkoutsFileChunkSize = 200
	filePrefix            = "workouts"
)

// File is a backup file already present in the backup folder.
type File struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type workoutsSource interface {
	ListCreatedSince(ctx context.Context, since *time.Time) ([]workouts.Workout, error)
}

//go:generate mockgen -source=$GOFILE -destination=backup_mocks_test.go -package=backup
type folder interface {
	Files(ctx context.Context) ([]File, error)
	Create(ctx context.Context, name string, content []byte) (string, error)
	Recreate(ctx context.Context) error
}

type Service struct {
	source         workoutsSource
	folder         folder
	metricsManager *metrics.Manager
	chunkSize      int
}

func NewService(source workoutsSource, folder folder, metricsManager *metrics.Manager) *Service {
	return &Service{
		source:         source,
		folder:         folder,
		metricsManager: metricsManager,
		chunkSize:      WorkoutsFileChunkSize,
	}
}

// Reinit drops the whole backup folder and writes a fresh initial backup.
func (s *Service) Reinit(ctx context.Context, baseTime time.Time) (int, error) {
	log.Println("workouts backup reinit starting ...")

	if err := s.folder.Recreate(ctx); err != nil {
		return 0, fmt.Errorf("recreate backups folder: %w", err)
	}

	return s.DoBackup(ctx, baseTime)
}

// DoBackup stores the workouts created since the newest backup file and
// returns how many were written. An empty folder gets an initial backup of everything.
func (s *Service) DoBackup(ctx context.Context, baseTime time.Time) (int, error) {
	start := time.Now()
	defer func() {
		s.metricsManager.HistBackupDuration.Observe(time.Since(start).Seconds())
	}()

	existing, err := s.folder.Files(ctx)
	if err != nil {
		return 0, fmt.Errorf("list backup files: %w", err)
	}

	if len(existing) == 0 {
		log.Println("backups empty, creating initial backup files ...")
		all, err := s.source.ListCreatedSince(ctx, nil)
		if err != nil {
			return 0, fmt.Errorf("get workouts: %w", err)
		}
		baseName := fmt.Sprintf("initial-%s", baseTime.Format(workouts.DateLayout))
		if err := s.backupWorkouts(ctx, all, baseName); err != nil {
			return 0, err
		}
		log.Printf("initial backup of %d workouts created", len(all))
		return len(all), nil
	}

	lastCreatedAt := time.Time{}
	for _, file := range existing {
		log.Debugf(" -- [%v]: %s (%s)", file.CreatedAt, file.Name, file.ID)
		if file.CreatedAt.After(lastCreatedAt) {
			lastCreatedAt = file.CreatedAt
		}
	}

	toBackup, err := s.source.ListCreatedSince(ctx, &lastCreatedAt)
	if err != nil {
		return 0, fmt.Errorf("get workouts since %v: %w", lastCreatedAt, err)
	}
	if len(toBackup) == 0 {
		log.Println("no new workouts to backup, done")
		return 0, nil
	}

	log.Printf(" ---- backing up %d workouts since %v", len(toBackup), lastCreatedAt)

	baseName := NextBaseName(baseTime, existing)
	if err := s.backupWorkouts(ctx, toBackup, baseName); err != nil {
		return 0, err
	}

	log.Printf("next backup since %v successfully saved: %s", lastCreatedAt, baseName)
	return len(toBackup), nil
}

func (s *Service) backupWorkouts(ctx context.Context, all []workouts.Workout, baseName string) error {
	for i, chunk := range Chunk(all, s.chunkSize) {
		name := fmt.Sprintf("%s_%d.json", baseName, i+1)

		content, err := json.Marshal(chunk)
		if err != nil {
			return fmt.Errorf("%s: marshal workouts: %w", name, err)
		}

		id, err := s.folder.Create(ctx, name, content)
		if err != nil {
			return fmt.Errorf("%s: create backup file: %w", name, err)
		}

		s.metricsManager.CounterWorkoutsBackedUp.Add(float64(len(chunk)))
		log.Printf("%s: backup file with %d workouts saved: %s", name, len(chunk), id)
	}
	return nil
}

// Chunk splits all into consecutive slices of at most size elements.
func Chunk(all []workouts.Workout, size int) [][]workouts.Workout {
	if size <= 0 || len(all) == 0 {
		return nil
	}

	chunks := make([][]workouts.Workout, 0, (len(all)+size-1)/size)
	for from := 0; from < len(all); from += size {
		to := min(from+size, len(all))
		chunks = append(chunks, all[from:to])
	}
	return chunks
}

// NextBaseName picks a file base name for baseTime not taken by any existing file.
func NextBaseName(baseTime time.Time, existing []File) string {
	taken := make(map[string]bool, len(existing))
	for _, f := range existing {
		taken[f.Name] = true
	}

	base := fmt.Sprintf("%s-%s", filePrefix, baseTime.Format(workouts.DateLayout))
	name := base
	for counter := 2; taken[name+"_1.json"]; counter++ {
		name = fmt.Sprintf("%s_%d", base, counter)
	}
	return name
}
