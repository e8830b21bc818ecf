package testing

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/2beens/workoutlog/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const TestDBName = "workoutlog"

// GetDBPool connects to the postgres at POSTGRES_HOST (default localhost),
// applies the schema and wipes all rows.
func GetDBPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postres host: %s", host)

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     host,
		DBPort:     "5432",
		DBName:     TestDBName,
		DBPassword: os.Getenv("POSTGRES_PASS"),
	})
	require.NoError(t, err)
	t.Cleanup(dbPool.Close)

	require.NoError(t, db.Migrate(ctx, dbPool))

	_, err = dbPool.Exec(ctx, `TRUNCATE users, workouts, exercises, sets, photos CASCADE;`)
	require.NoError(t, err)

	return dbPool
}
