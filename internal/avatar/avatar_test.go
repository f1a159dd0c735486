package avatar

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	allTypes  = Limits{MaxBytes: 1024, AllowedTypes: []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}}
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		upload   Upload
		limits   Limits
		wantType string
		wantExt  string
		wantErr  error
	}{
		{"declared png", Upload{ContentType: "image/png", Data: pngHeader}, allTypes, "image/png", "png", nil},
		{"declared with params", Upload{ContentType: "Image/JPEG; q=1", Data: []byte("x")}, allTypes, "image/jpeg", "jpg", nil},
		{"jpg alias", Upload{ContentType: "image/jpg", Data: []byte("x")}, allTypes, "image/jpg", "jpg", nil},
		{"from extension", Upload{Filename: "me.WEBP", Data: []byte("x")}, allTypes, "image/webp", "webp", nil},
		{"sniffed", Upload{Filename: "avatar", Data: pngHeader}, allTypes, "image/png", "png", nil},
		{"gif rejected", Upload{ContentType: "image/gif", Data: []byte("GIF89a")}, allTypes, "", "", cliengoerrors.ErrAvatarUnsupportedType},
		{"text rejected", Upload{Filename: "notes.txt", Data: []byte("hello")}, allTypes, "", "", cliengoerrors.ErrAvatarUnsupportedType},
		{
			"type not in allowed list",
			Upload{ContentType: "image/webp", Data: []byte("x")},
			Limits{MaxBytes: 10, AllowedTypes: []string{"image/png"}},
			"", "", cliengoerrors.ErrAvatarUnsupportedType,
		},
		{"too large", Upload{ContentType: "image/png", Data: make([]byte, 1025)}, allTypes, "", "", cliengoerrors.ErrAvatarTooLarge},
		{"empty", Upload{ContentType: "image/png"}, allTypes, "", "", cliengoerrors.ErrEmptyValue},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ct, ext, err := Validate(tc.upload, tc.limits)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.ErrorIs(t, err, cliengoerrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantType, ct)
			assert.Equal(t, tc.wantExt, ext)
		})
	}
}

func TestObjectPath(t *testing.T) {
	t.Parallel()
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "u1/u1-1700000000123.png", ObjectPath("u1", at, "png"))
}

func TestStore_PutAndLatest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	s := New(fs, "/avatars", "")

	_, ok, err := s.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	older := ObjectPath("u1", time.UnixMilli(1000), "png")
	newer := ObjectPath("u1", time.UnixMilli(2000), "webp")
	require.NoError(t, s.Put(ctx, older, []byte("old")))
	require.NoError(t, s.Put(ctx, newer, []byte("new")))
	require.NoError(t, fs.Chtimes(older, time.Unix(10, 0), time.Unix(10, 0)))
	require.NoError(t, fs.Chtimes(newer, time.Unix(20, 0), time.Unix(20, 0)))

	p, ok, err := s.Latest(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, newer, p)

	data, err := afero.ReadFile(fs, newer)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	exists, err := afero.Exists(fs, newer+".tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_PutOverwrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	s := New(fs, "/avatars", "")

	require.NoError(t, s.Put(ctx, "u1/a.png", []byte("one")))
	require.NoError(t, s.Put(ctx, "u1/a.png", []byte("two")))

	data, err := afero.ReadFile(fs, "u1/a.png")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestStore_PutCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(afero.NewMemMapFs(), "/avatars", "").Put(ctx, "u1/a.png", []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestStore_PublicURL(t *testing.T) {
	t.Parallel()

	cdn := New(afero.NewMemMapFs(), "/avatars", "https://cdn.example.com/avatars/")
	assert.Equal(t, "https://cdn.example.com/avatars/u1/u1-1.png", cdn.PublicURL("u1/u1-1.png"))

	local := New(afero.NewMemMapFs(), "/home/ana/.cliengo/avatars", "")
	assert.Equal(t, "file:///home/ana/.cliengo/avatars/u1/u1-1.png", local.PublicURL("u1/u1-1.png"))
}

func TestNewOS(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s := NewOS(dir, "")

	require.NoError(t, s.Put(context.Background(), "u1/u1-5.png", pngHeader))
	assert.FileExists(t, dir+"/u1/u1-5.png")
}
