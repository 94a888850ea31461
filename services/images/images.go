package imgsvc

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
)

const jpegQuality = 85

var ErrInvalidImage = errors.New("unsupported or corrupt image")

// Processor shrinks pictures to fit the configured bounds and re-encodes them as JPEG.
type Processor struct {
	maxWidth  int
	maxHeight int
}

var _ core.ImageProcessor = (*Processor)(nil)

func NewProcessor(conf *core.Config) *Processor {
	return &Processor{maxWidth: conf.Image.MaxWidth, maxHeight: conf.Image.MaxHeight}
}

// Normalize decodes data (JPEG, PNG or GIF), applies its EXIF orientation, fits it within the
// max bounds keeping the aspect ratio and flattens transparency onto white.
func (p *Processor) Normalize(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidImage, err.Error())
	}

	b := img.Bounds()
	if p.maxWidth > 0 && p.maxHeight > 0 && (b.Dx() > p.maxWidth || b.Dy() > p.maxHeight) {
		img = imaging.Fit(img, p.maxWidth, p.maxHeight, imaging.Lanczos)
	}
	bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	flat := imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, errors.Wrap(err, "encoding image")
	}
	return buf.Bytes(), nil
}

// IsJPEG reports whether data starts with the JPEG start-of-image marker.
func IsJPEG(data []byte) bool {
	return len(data) > 2 && data[0] == 0xFF && data[1] == 0xD8
}
