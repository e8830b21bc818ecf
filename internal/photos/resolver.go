package photos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/workoutlog/internal/storage"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// DefaultPlaceholderURL is returned when a photo URL cannot be resolved twice in a row
// and no absolute placeholder URL is configured. The storage handler serves it.
const DefaultPlaceholderURL = storage.PlaceholderPath

//go:generate mockgen -source=$GOFILE -destination=resolver_mocks_test.go -package=photos

type urlSigner interface {
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Resolver turns storage paths into time-boxed URLs. Nothing is cached,
// every call asks the signer again.
type Resolver struct {
	signer         urlSigner
	ttl            time.Duration
	placeholderURL string
	metricsManager *metrics.Manager
}

func NewResolver(signer urlSigner, ttl time.Duration, placeholderURL string, metricsManager *metrics.Manager) *Resolver {
	if placeholderURL == "" {
		placeholderURL = DefaultPlaceholderURL
	}
	return &Resolver{
		signer:         signer,
		ttl:            ttl,
		placeholderURL: placeholderURL,
		metricsManager: metricsManager,
	}
}

func (r *Resolver) Resolve(ctx context.Context, storagePath string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "resolver.photos.resolve")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("storage_path", storagePath))

	url, err := r.signer.SignedURL(ctx, storagePath, r.ttl)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", storagePath, err)
	}
	return url, nil
}

// ResolveMany resolves all photos concurrently and waits for every one of them.
// Photos that fail keep an empty PublicURL; their errors are combined in the returned error.
func (r *Resolver) ResolveMany(ctx context.Context, photos []Photo) ([]Photo, error) {
	resolved := make([]Photo, len(photos))
	copy(resolved, photos)

	var (
		mu   sync.Mutex
		errs error
	)
	g, gCtx := errgroup.WithContext(ctx)
	for i := range resolved {
		g.Go(func() error {
			url, err := r.Resolve(gCtx, resolved[i].StoragePath)
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
				resolved[i].PublicURL = ""
				return nil
			}
			resolved[i].PublicURL = url
			return nil
		})
	}
	// goroutines always return nil
	_ = g.Wait()

	return resolved, errs
}

// ResolveOrPlaceholder resolves once more after a failure, then gives up with the placeholder.
func (r *Resolver) ResolveOrPlaceholder(ctx context.Context, storagePath string) string {
	url, err := r.Resolve(ctx, storagePath)
	if err == nil {
		return url
	}
	log.Debugf("resolve photo url, retrying once: %s", err)

	url, err = r.Resolve(ctx, storagePath)
	if err == nil {
		return url
	}

	log.Warnf("resolve photo url, using placeholder: %s", err)
	r.metricsManager.CounterURLResolveFailures.Inc()
	return r.placeholderURL
}
