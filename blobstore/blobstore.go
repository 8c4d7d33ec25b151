// Package blobstore exchanges uploaded image bytes for stable URLs. The
// backing store is the local disk under the configured upload dir, served
// by the router at /static/uploads/.
package blobstore

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	MaxImageBytes = 5 << 20 // 5 MB per image
	urlPrefix     = "/static/uploads/"
	thumbWidth    = 320
)

var (
	ErrTooLarge   = errors.New("image exceeds the 5 MB limit")
	ErrBadFormat  = errors.New("only JPEG and PNG images are accepted")
	ErrBadPayload = errors.New("image data is corrupt")
)

var baseDir = "./static/uploads"

func Init(dir string) {
	if dir != "" {
		baseDir = dir
	}
}

func extensionFor(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}

// Upload validates the bytes as a JPEG/PNG within the size cap, stores them
// under the given namespace folder and returns the stable URL. A 320px
// thumbnail is written next to the original.
func Upload(data []byte, folder string) (string, error) {
	if len(data) == 0 {
		return "", ErrBadPayload
	}
	if len(data) > MaxImageBytes {
		return "", ErrTooLarge
	}
	contentType := http.DetectContentType(data)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return "", ErrBadFormat
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrBadPayload
	}

	name := uuid.New().String() + extensionFor(contentType)
	dir := filepath.Join(baseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	thumb := imaging.Thumbnail(img, thumbWidth, thumbWidth*3/4, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(dir, "thumb_"+name)); err != nil {
		// The original is already stored; a missing thumbnail is tolerable.
		_ = os.Remove(filepath.Join(dir, "thumb_"+name))
	}

	return urlPrefix + folder + "/" + name, nil
}

// Delete removes the blob (and its thumbnail) addressed by a URL previously
// returned from Upload. Unknown URLs are reported as errors so callers can
// log them.
func Delete(url string) error {
	rel, ok := strings.CutPrefix(url, urlPrefix)
	if !ok || rel == "" || strings.Contains(rel, "..") {
		return fmt.Errorf("not a managed blob URL: %q", url)
	}
	path := filepath.Join(baseDir, filepath.FromSlash(rel))
	_ = os.Remove(filepath.Join(filepath.Dir(path), "thumb_"+filepath.Base(path)))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
