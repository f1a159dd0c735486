// Package avatar stores profile pictures as blobs on an afero filesystem and
// validates uploads before they are written.
package avatar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/mrz1836/cliengo/internal/ctxutil"
	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// extensions maps accepted content types to the extension used in blob names.
var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Upload is an avatar image as received from the user.
type Upload struct {
	// Filename is used to guess the content type when none is declared.
	Filename    string
	ContentType string
	Data        []byte
}

// Limits bounds what Validate accepts.
type Limits struct {
	MaxBytes     int64
	AllowedTypes []string
}

// Validate returns the content type and blob extension of u.
// The content type is taken from u.ContentType, then the file extension,
// then sniffed from the data.
func Validate(u Upload, limits Limits) (contentType, ext string, err error) {
	if len(u.Data) == 0 {
		return "", "", cliengoerrors.NewValidationError("avatar", cliengoerrors.ErrEmptyValue, "image is empty")
	}
	if limits.MaxBytes > 0 && int64(len(u.Data)) > limits.MaxBytes {
		return "", "", cliengoerrors.NewValidationError("avatar", cliengoerrors.ErrAvatarTooLarge,
			fmt.Sprintf("image is %d bytes, the limit is %d", len(u.Data), limits.MaxBytes))
	}

	contentType = detectType(u)
	ext, known := extensions[contentType]
	if !known || !slices.Contains(limits.AllowedTypes, contentType) {
		return "", "", cliengoerrors.NewValidationError("avatar", cliengoerrors.ErrAvatarUnsupportedType,
			fmt.Sprintf("%s is not an accepted image type", contentType))
	}
	return contentType, ext, nil
}

func detectType(u Upload) string {
	if ct := normalizeType(u.ContentType); ct != "" {
		return ct
	}
	switch strings.ToLower(filepath.Ext(u.Filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	return normalizeType(http.DetectContentType(u.Data))
}

func normalizeType(ct string) string {
	ct, _, _ = strings.Cut(ct, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// ObjectPath returns the blob path of a new avatar: <owner>/<owner>-<unixms>.<ext>.
func ObjectPath(ownerID string, at time.Time, ext string) string {
	return path.Join(ownerID, fmt.Sprintf("%s-%d.%s", ownerID, at.UnixMilli(), ext))
}

// Store keeps avatar blobs on an afero filesystem.
type Store struct {
	fs      afero.Fs
	baseURL string
	dir     string
}

// New returns a Store over fs. Public URLs are baseURL joined with the blob
// path; with no baseURL they are file URLs under dir.
func New(fs afero.Fs, dir, baseURL string) *Store {
	return &Store{fs: fs, dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// NewOS returns a Store rooted at dir on the local disk.
func NewOS(dir, baseURL string) *Store {
	return New(afero.NewBasePathFs(afero.NewOsFs(), dir), dir, baseURL)
}

// Put writes data at p, replacing any existing blob.
func (s *Store) Put(ctx context.Context, p string, data []byte) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if err := s.fs.MkdirAll(path.Dir(p), dirPerm); err != nil {
		return fmt.Errorf("failed to create avatar directory: %w", err)
	}

	tmp := p + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, filePerm); err != nil {
		return fmt.Errorf("failed to write avatar: %w", err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to write avatar: %w", err)
	}
	return nil
}

// Latest returns the most recently written blob under prefix. ok is false
// when there is none.
func (s *Store) Latest(ctx context.Context, prefix string) (p string, ok bool, err error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", false, err
	}
	entries, err := afero.ReadDir(s.fs, prefix)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to list avatars: %w", err)
	}

	var latest os.FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".tmp") {
			continue
		}
		if latest == nil || e.ModTime().After(latest.ModTime()) ||
			(e.ModTime().Equal(latest.ModTime()) && e.Name() > latest.Name()) {
			latest = e
		}
	}
	if latest == nil {
		return "", false, nil
	}
	return path.Join(prefix, latest.Name()), true, nil
}

// PublicURL returns the URL a client can load the blob at p from.
func (s *Store) PublicURL(p string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + strings.TrimLeft(p, "/")
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(s.dir, filepath.FromSlash(p)))}
	return u.String()
}
