package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/2beens/workoutlog/internal/backup"
	"github.com/2beens/workoutlog/internal/config"
	"github.com/2beens/workoutlog/internal/db"
	"github.com/2beens/workoutlog/internal/logging"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/workouts"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	log "github.com/sirupsen/logrus"
)

// workouts google drive backup cmd

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	credentialsFile := flag.String("gd-creds", "./drive-credentials.json", "google drive service account credentials json")
	readerEmail := flag.String("reader-email", "", "account given read access to the backup files (empty for none)")
	logsPath := flag.String("logs-path", "/var/log/workoutlog/gd-backup.log", "logs file path (empty for stdout)")
	pushGatewayURL := flag.String("pushgateway", "", "prometheus pushgateway url for the backup metrics (empty to skip)")
	reinit := flag.Bool("reinit", false, "reinitialize all again")
	destroy := flag.Bool("destroy", false, "destroy all files (warning!!) (try running more times, if more than 100 files are present)")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      *logsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "workoutlog-gd-backup",
	})

	log.Println("starting workouts backup ...")

	if *credentialsFile == "" {
		log.Fatalln("google drive credentials json not specified")
	}
	if *reinit {
		log.Warnln("!! attention: will reinitialize all again...")
	}

	credentialsFileBytes, err := os.ReadFile(*credentialsFile)
	if err != nil {
		log.Fatalf("unable to read credentials file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	driveService, err := backup.NewDriveService(ctx, credentialsFileBytes)
	if err != nil {
		log.Fatalf("failed to create google drive service: %s", err)
	}

	if *destroy {
		deleted, err := backup.DestroyAllFiles(ctx, driveService)
		if err != nil {
			log.Fatalf("destroy failed: %s", err)
		}
		log.Printf("destroy done, %d files deleted", deleted)
		return
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("WORKOUTLOG_DB_PASS"),
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	folder, err := backup.NewDriveFolder(ctx, driveService, *readerEmail)
	if err != nil {
		log.Fatalf("failed to open google drive backups folder: %s", err)
	}

	promRegistry := prometheus.NewRegistry()
	metricsManager := metrics.NewManager("backend", "gd_backup", promRegistry)

	s := backup.NewService(workouts.NewRepo(dbPool), folder, metricsManager)

	baseTime := time.Now()
	var count int
	if *reinit {
		count, err = s.Reinit(ctx, baseTime)
	} else {
		count, err = s.DoBackup(ctx, baseTime)
	}
	if err != nil {
		log.Errorf("backup failed: %+v", err)
	} else {
		log.Printf("backup done, %d workouts saved", count)
	}

	if *pushGatewayURL != "" {
		if pushErr := push.New(*pushGatewayURL, "workoutlog_gd_backup").Gatherer(promRegistry).Push(); pushErr != nil {
			log.Errorf("push backup metrics: %s", pushErr)
		}
	}

	if err != nil {
		os.Exit(1)
	}
}
