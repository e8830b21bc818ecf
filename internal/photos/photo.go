package photos

import (
	"errors"
	"time"
)

// DailyFolder is the object key segment used for photos not attached to a workout.
const DailyFolder = "daily"

var (
	ErrPhotoNotFound = errors.New("photo not found")
	ErrNotInGroup    = errors.New("target user is not in the same group")
	ErrInvalidUpload = errors.New("invalid upload")
)

// Photo is a stored image. Workout photos have WorkoutID set, daily photos only a Date.
type Photo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	WorkoutID   string    `json:"workout_id,omitempty"`
	Date        string    `json:"date,omitempty"`
	StoragePath string    `json:"storage_path"`
	PublicURL   string    `json:"public_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p Photo) IsDaily() bool {
	return p.WorkoutID == ""
}

type DailyGroup struct {
	Date   string  `json:"date"`
	Photos []Photo `json:"photos"`
}

// GroupDaily groups photos by date, keeping the input order of dates and photos.
func GroupDaily(photos []Photo) []DailyGroup {
	var groups []DailyGroup
	index := make(map[string]int)
	for _, p := range photos {
		i, ok := index[p.Date]
		if !ok {
			i = len(groups)
			index[p.Date] = i
			groups = append(groups, DailyGroup{Date: p.Date})
		}
		groups[i].Photos = append(groups[i].Photos, p)
	}
	return groups
}
