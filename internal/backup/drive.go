package backup

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	RootBackupsFolderName = "workoutlog-backup"
	folderMimeType        = "application/vnd.google-apps.folder"
	destroyPageSize       = 100
)

var _ folder = (*DriveFolder)(nil)

// DriveFolder keeps backup files in one Google Drive folder.
type DriveFolder struct {
	service     *drive.Service
	folderID    string
	readerEmail string
}

// NewDriveService builds a Drive client authorised with a service account
// credentials json, its requests traced through otelhttp.
func NewDriveService(ctx context.Context, credentialsJSON []byte) (*drive.Service, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}

	httpClient := &http.Client{
		Timeout: time.Minute,
		Transport: &oauth2.Transport{
			Source: creds.TokenSource,
			Base:   otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	// https://github.com/googleapis/google-api-go-client/blob/master/drive/v3/drive-gen.go
	driveService, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}
	return driveService, nil
}

// NewDriveFolder finds the root backups folder or creates it. When readerEmail
// is set, that account gets read access to the folder and every file in it.
func NewDriveFolder(ctx context.Context, service *drive.Service, readerEmail string) (*DriveFolder, error) {
	f := &DriveFolder{
		service:     service,
		readerEmail: readerEmail,
	}

	rootFolderQuery := fmt.Sprintf("mimeType = '%s' and trashed = false and name = '%s'", folderMimeType, RootBackupsFolderName)
	found, err := service.Files.List().
		Q(rootFolderQuery).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	switch len(found.Files) {
	case 0:
		log.Println("root backups folder not found, recreating ...")
		folderID, err := f.createRootFolder(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create root backups folder: %w", err)
		}
		f.folderID = folderID
		log.Printf("new root backups folder created: %s", folderID)
	case 1:
		f.folderID = found.Files[0].Id
		log.Printf("root backups folder found: %s", f.folderID)
	default:
		f.folderID = found.Files[0].Id
		log.Warnf("attention: found %d root backups folders, will take the first one: %s", len(found.Files), f.folderID)
	}

	return f, nil
}

func (f *DriveFolder) Files(ctx context.Context) ([]File, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType != '%s' and trashed = false", f.folderID, folderMimeType)

	var files []File
	err := f.service.Files.List().
		Q(query).
		Fields("nextPageToken, files(id, name, createdTime)").
		Pages(ctx, func(page *drive.FileList) error {
			for _, file := range page.Files {
				createdAt, err := time.Parse(time.RFC3339, file.CreatedTime)
				if err != nil {
					log.Errorf(" ---> error parsing created at for file %s: %s", file.Name, err)
					continue
				}
				files = append(files, File{
					ID:        file.Id,
					Name:      file.Name,
					CreatedAt: createdAt,
				})
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (f *DriveFolder) Create(ctx context.Context, name string, content []byte) (string, error) {
	fileMeta := &drive.File{
		Name:     name,
		MimeType: "application/json",
		Parents:  []string{f.folderID},
	}

	created, err := f.service.Files.Create(fileMeta).
		Fields("id, parents").
		Media(bytes.NewReader(content)).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}

	if err := f.shareWithReader(ctx, created.Id); err != nil {
		return created.Id, fmt.Errorf("failed to create additional permission: %w", err)
	}

	return created.Id, nil
}

// Recreate deletes the root folder with all its files and starts a new one.
func (f *DriveFolder) Recreate(ctx context.Context) error {
	if err := f.service.Files.Delete(f.folderID).Context(ctx).Do(); err != nil {
		return err
	}

	folderID, err := f.createRootFolder(ctx)
	if err != nil {
		return fmt.Errorf("failed to create root backups folder: %w", err)
	}

	log.Printf("new root backups folder created: %s", folderID)
	f.folderID = folderID
	return nil
}

func (f *DriveFolder) createRootFolder(ctx context.Context) (string, error) {
	created, err := f.service.Files.Create(&drive.File{
		Name:     RootBackupsFolderName,
		MimeType: folderMimeType,
	}).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}

	if err := f.shareWithReader(ctx, created.Id); err != nil {
		return created.Id, fmt.Errorf("failed to create additional permission for root backup folder: %w", err)
	}

	return created.Id, nil
}

func (f *DriveFolder) shareWithReader(ctx context.Context, fileID string) error {
	if f.readerEmail == "" {
		return nil
	}

	permission, err := f.service.Permissions.Create(fileID, &drive.Permission{
		EmailAddress: f.readerEmail,
		Type:         "user",
		Role:         "reader",
	}).
		Context(ctx).
		Do()
	if err != nil {
		return err
	}

	log.Debugf("permission %s created for %s", permission.Id, fileID)
	return nil
}

// DestroyAllFiles deletes up to one page of files visible to the service account.
// It returns the number of deleted files, run it again until that is 0.
func DestroyAllFiles(ctx context.Context, service *drive.Service) (int, error) {
	list, err := service.Files.List().
		PageSize(destroyPageSize).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("unable to retrieve files: %w", err)
	}

	deleted := 0
	for _, file := range list.Files {
		if err := service.Files.Delete(file.Id).Context(ctx).Do(); err != nil {
			log.Errorf("delete file %s (%s): %s", file.Name, file.Id, err)
			continue
		}
		deleted++
		log.Printf("deleted %s (%s)", file.Name, file.Id)
	}

	return deleted, nil
}
