// Package media turns background references into images. A reference is a
// data URL or a file path; rasters go through image.Decode and SVG goes
// through oksvg.
package media

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"LocalNotebook/internal/logging"
	"LocalNotebook/internal/state"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned for content that is neither a known raster
// format nor SVG.
var ErrUnsupported = errors.New("unsupported image format")

// svgSize is used when an SVG has no usable viewBox.
const svgSize = 1024

// Decode reads a raster image or an SVG document from r.
func Decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(512)
	if looksLikeSVG(head) {
		return RasterSVG(br)
	}
	img, format, err := image.Decode(br)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupported
		}
		return nil, fmt.Errorf("decode image: %w", err)
	}
	logging.Logger().Debug("[MEDIA] decoded", "format", format, "bounds", img.Bounds())
	return img, nil
}

func looksLikeSVG(head []byte) bool {
	head = bytes.TrimSpace(head)
	if !bytes.HasPrefix(head, []byte("<")) {
		return false
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

// RasterSVG renders an SVG document at its viewBox size.
func RasterSVG(r io.Reader) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = svgSize, svgSize
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return img, nil
}

// DecodeRef resolves a data URL or a file path to an image.
func DecodeRef(ref string) (image.Image, error) {
	if IsDataURL(ref) {
		_, data, err := DecodeDataURL(ref)
		if err != nil {
			return nil, err
		}
		return Decode(bytes.NewReader(data))
	}
	f, err := os.Open(strings.TrimPrefix(ref, "file://"))
	if err != nil {
		return nil, fmt.Errorf("open background: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// LoadBackground decodes ref into a page background.
func LoadBackground(ref string) (*state.Background, error) {
	img, err := DecodeRef(ref)
	if err != nil {
		return nil, err
	}
	return &state.Background{Ref: ref, Image: img}, nil
}

// EmbedFile reads a file and returns it as a data URL, so the notebook does
// not depend on the file staying where it is.
func EmbedFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("embed %s: %w", filepath.Base(path), err)
	}
	return EncodeDataURL(mimeType(path, data), data), nil
}
