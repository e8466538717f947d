package render

import (
	"image"
	"math"
	"reflect"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// maxScaled bounds the stretched-image cache.
const maxScaled = 8

// scaleKey identifies a stretched image. src is always a pointer, so the
// key is comparable whatever image type is behind it.
type scaleKey struct {
	src    image.Image
	target image.Rectangle
	view   image.Rectangle
}

// drawImage stretches img over area. Only the part of area that lies on
// the surface is resampled, so a sheet zoomed far past the window size
// costs no more than a window-sized image.
func (r *Renderer) drawImage(dc *gg.Context, img image.Image, area rect) {
	target := image.Rect(
		int(math.Round(area.x)), int(math.Round(area.y)),
		int(math.Round(area.x+area.w)), int(math.Round(area.y+area.h)),
	)
	view := target.Intersect(image.Rect(0, 0, dc.Width(), dc.Height()))
	if view.Empty() || img.Bounds().Empty() {
		return
	}
	dc.DrawImage(r.stretch(img, target, view), 0, 0)
}

// stretch returns an image whose bounds are view, holding the part of img
// scaled to target that falls inside view. Only images held by pointer
// are cached.
func (r *Renderer) stretch(img image.Image, target, view image.Rectangle) *image.RGBA {
	if reflect.ValueOf(img).Kind() != reflect.Pointer {
		return scale(img, target, view)
	}
	key := scaleKey{src: img, target: target, view: view}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scaled == nil {
		r.scaled = make(map[scaleKey]*image.RGBA)
	}
	if dst, ok := r.scaled[key]; ok {
		return dst
	}
	dst := scale(img, target, view)
	if len(r.scaled) >= maxScaled {
		clear(r.scaled)
	}
	r.scaled[key] = dst
	return dst
}

func scale(img image.Image, target, view image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(view)
	xdraw.ApproxBiLinear.Scale(dst, target, img, img.Bounds(), xdraw.Src, nil)
	return dst
}
