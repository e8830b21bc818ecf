package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid object key")
)

type ObjectInfo struct {
	Key       string
	Size      int64
	UpdatedAt time.Time
}

// DiskStore keeps objects as plain files under rootPath, addressed by slash separated keys.
type DiskStore struct {
	rootPath string
	mutex    sync.RWMutex
}

func NewDiskStore(rootPath string) (*DiskStore, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	stat, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("stat root path: %w", err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("root path %s is not a directory", rootPath)
	}
	return &DiskStore{
		rootPath: rootPath,
	}, nil
}

// ValidateKey accepts keys like "user/daily/2024-01-02/abc.jpg".
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	if path.Clean(key) != key {
		return ErrInvalidKey
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

func (ds *DiskStore) filePath(key string) string {
	return filepath.Join(ds.rootPath, filepath.FromSlash(key))
}

func (ds *DiskStore) Put(ctx context.Context, key string, r io.Reader) (_ int64, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("object.key", key))

	if err := ValidateKey(key); err != nil {
		return 0, err
	}

	dst := ds.filePath(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("create object dir: %w", err)
	}

	// write next to the destination, then rename, so readers never see a partial object
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	written, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if removeErr := os.Remove(tmp.Name()); removeErr != nil {
			log.Errorf("disk store: remove temp file %s: %s", tmp.Name(), removeErr)
		}
		return 0, fmt.Errorf("write object: %w", err)
	}

	ds.mutex.Lock()
	defer ds.mutex.Unlock()
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, fmt.Errorf("move object in place: %w", err)
	}

	span.SetAttributes(attribute.Int64("object.size", written))
	log.Debugf("disk store: object [%s] saved, %d bytes", key, written)

	return written, nil
}

// Open returns the object's content. Caller closes it.
func (ds *DiskStore) Open(ctx context.Context, key string) (_ *os.File, _ *ObjectInfo, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.open")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ValidateKey(key); err != nil {
		return nil, nil, err
	}

	ds.mutex.RLock()
	defer ds.mutex.RUnlock()

	f, err := os.Open(ds.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrObjectNotFound
		}
		return nil, nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	return f, &ObjectInfo{
		Key:       key,
		Size:      stat.Size(),
		UpdatedAt: stat.ModTime(),
	}, nil
}

func (ds *DiskStore) Stat(ctx context.Context, key string) (*ObjectInfo, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	ds.mutex.RLock()
	defer ds.mutex.RUnlock()

	stat, err := os.Stat(ds.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return &ObjectInfo{
		Key:       key,
		Size:      stat.Size(),
		UpdatedAt: stat.ModTime(),
	}, nil
}

func (ds *DiskStore) Delete(ctx context.Context, key string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("object.key", key))

	if err := ValidateKey(key); err != nil {
		return err
	}

	ds.mutex.Lock()
	defer ds.mutex.Unlock()

	if err := os.Remove(ds.filePath(key)); err != nil {
		if os.IsNotExist(err) {
			return ErrObjectNotFound
		}
		return err
	}

	log.Debugf("disk store: object [%s] deleted", key)
	return nil
}
