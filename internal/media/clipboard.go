package media

import (
	"errors"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrNoImage is returned when the clipboard holds nothing usable as a
// background.
var ErrNoImage = errors.New("clipboard holds no image reference")

var readClipboard = clipboard.ReadAll

// FromClipboard returns the background reference on the clipboard: a data
// URL, or the path of an existing file.
func FromClipboard() (string, error) {
	text, err := readClipboard()
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if IsDataURL(text) {
		return text, nil
	}
	path := strings.TrimPrefix(text, "file://")
	if path == "" {
		return "", ErrNoImage
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return "", ErrNoImage
	}
	return path, nil
}
