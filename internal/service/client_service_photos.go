package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/fleetzen/fleetzen/internal/config"
	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/models"
)

const (
	defaultPhotoMaxDimension = 1600
	defaultPhotoQuality      = 75
)

type photoProcessor struct {
	maxDimension int
	quality      int

	logger *logger.Logger
}

// NewPhotoProcessor returns a PhotoProcessor bounded by the photo settings
// of cfg. Zero values fall back to 1600px and JPEG quality 75.
func NewPhotoProcessor(cfg config.Drafts, logger *logger.Logger) PhotoProcessor {
	p := &photoProcessor{
		maxDimension: cfg.PhotoMaxDimension,
		quality:      cfg.PhotoQuality,
		logger:       logger,
	}
	if p.maxDimension <= 0 {
		p.maxDimension = defaultPhotoMaxDimension
	}
	if p.quality <= 0 || p.quality > 100 {
		p.quality = defaultPhotoQuality
	}
	return p
}

func (p *photoProcessor) Process(ctx context.Context, r io.Reader) (models.PhotoBlob, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return models.PhotoBlob{}, fmt.Errorf("%w: decode photo: %w", ErrInvalidArgument, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > p.maxDimension || bounds.Dy() > p.maxDimension {
		img = imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return models.PhotoBlob{}, fmt.Errorf("encode photo: %w", err)
	}

	out := img.Bounds()
	p.logger.Debug().
		Str("func", "photoProcessor.Process").
		Int("source_width", bounds.Dx()).
		Int("source_height", bounds.Dy()).
		Int("width", out.Dx()).
		Int("height", out.Dy()).
		Int("bytes", buf.Len()).
		Msg("photo compressed")

	return models.PhotoBlob{
		Data:        buf.Bytes(),
		ContentType: photoContentTypeJPEG,
		Width:       out.Dx(),
		Height:      out.Dy(),
	}, nil
}
