package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

var ErrBadDataURL = errors.New("malformed data url")

func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// EncodeDataURL returns data as a base64 data URL.
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL splits a data URL into its media type and payload. Both
// base64 and percent-encoded payloads are accepted.
func DecodeDataURL(s string) (mime string, data []byte, err error) {
	if !IsDataURL(s) {
		return "", nil, ErrBadDataURL
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return "", nil, ErrBadDataURL
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if mime == "" {
		mime = "text/plain"
	}
	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrBadDataURL, err)
		}
		return mime, data, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadDataURL, err)
	}
	return mime, []byte(text), nil
}

func mimeType(path string, data []byte) string {
	if strings.EqualFold(filepath.Ext(path), ".svg") || looksLikeSVG(data) {
		return "image/svg+xml"
	}
	return http.DetectContentType(data)
}
