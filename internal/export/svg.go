package export

import (
	"bufio"
	"bytes"
	"fmt"
	"html"
	"image/png"
	"io"
	"strconv"

	"LocalNotebook/internal/media"
	"LocalNotebook/internal/state"
)

// SVG writes the page as an SVG document whose viewBox is the page's
// Region, so one user unit is one world unit.
func SVG(w io.Writer, page state.Page, o Options) error {
	r := Region(page, o)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%s" height="%s" viewBox="%s %s %s %s">`+"\n",
		num(r.Width), num(r.Height), num(r.X), num(r.Y), num(r.Width), num(r.Height))
	fmt.Fprintf(bw, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(r.X), num(r.Y), num(r.Width), num(r.Height), hexColor(paperFill(o.Spec)))

	if href, ok := imageHref(page.BackgroundImage); ok {
		fmt.Fprintf(bw, `<image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="none" xlink:href="%s"/>`+"\n",
			num(r.X), num(r.Y), num(r.Width), num(r.Height), html.EscapeString(href))
	}

	for _, s := range page.Strokes() {
		if len(s.Points) < 2 {
			continue
		}
		c := ink(s.Color)
		bw.WriteString(`<polyline fill="none" stroke-linecap="round" stroke-linejoin="round"`)
		fmt.Fprintf(bw, ` stroke="%s" stroke-width="%s"`, hexColor(c), num(s.Width))
		if c.A != 0xff {
			fmt.Fprintf(bw, ` stroke-opacity="%s"`, num(float64(c.A)/0xff))
		}
		bw.WriteString(` points="`)
		for i, p := range s.Points {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(num(p.X))
			bw.WriteByte(',')
			bw.WriteString(num(p.Y))
		}
		bw.WriteString("\"/>\n")
	}
	bw.WriteString("</svg>\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// imageHref is the background as something an SVG viewer can load:
// the stored data URL, or the decoded image re-encoded as one.
func imageHref(bg *state.Background) (string, bool) {
	if bg == nil {
		return "", false
	}
	if media.IsDataURL(bg.Ref) {
		return bg.Ref, true
	}
	if bg.Image == nil {
		return "", false
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, bg.Image); err != nil {
		return "", false
	}
	return media.EncodeDataURL("image/png", buf.Bytes()), true
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
