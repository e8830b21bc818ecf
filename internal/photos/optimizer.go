package photos

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/metrics"

	"github.com/nfnt/resize"
	log "github.com/sirupsen/logrus"
)

// Profile bounds an optimized image.
type Profile struct {
	MaxWidth  uint
	MaxHeight uint
	Quality   int
}

// MaxDecodePixels bounds the pixel count of an image that gets decoded.
// Larger images are passed through as uploaded.
const MaxDecodePixels = 50_000_000

var (
	WorkoutPhotoProfile = Profile{MaxWidth: 1600, MaxHeight: 1600, Quality: 82}
	DailyPhotoProfile   = Profile{MaxWidth: 800, MaxHeight: 600, Quality: 80}
)

// Optimizer downscales uploads into the profile envelope and re-encodes them as JPEG.
type Optimizer struct {
	metricsManager *metrics.Manager
}

func NewOptimizer(metricsManager *metrics.Manager) *Optimizer {
	return &Optimizer{
		metricsManager: metricsManager,
	}
}

// Optimize keeps the aspect ratio and never upscales. If the input cannot be
// decoded or encoded, or is larger than MaxDecodePixels, it is returned unchanged
// and optimized is false.
func (o *Optimizer) Optimize(data []byte, profile Profile) (_ []byte, optimized bool) {
	start := time.Now()
	defer func() {
		o.metricsManager.HistImageOptimizeDuration.Observe(time.Since(start).Seconds())
	}()

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Debugf("optimize image, decode config failed, passing original through: %s", err)
		return data, false
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > MaxDecodePixels {
		log.Warnf("optimize image, %dx%d exceeds the decode budget, passing original through", cfg.Width, cfg.Height)
		return data, false
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debugf("optimize image, decode failed, passing original through: %s", err)
		return data, false
	}

	// Thumbnail returns the image untouched when it already fits
	thumb := resize.Thumbnail(profile.MaxWidth, profile.MaxHeight, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: profile.Quality}); err != nil {
		log.Errorf("optimize image, encode %s as jpeg: %s", format, err)
		return data, false
	}

	bounds := thumb.Bounds()
	log.Tracef("image optimized: %s %d bytes -> jpeg %dx%d %d bytes", format, len(data), bounds.Dx(), bounds.Dy(), buf.Len())
	return buf.Bytes(), true
}
