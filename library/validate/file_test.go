package validate

import (
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"
)

func TestValidateFileSize(t *testing.T) {
	t.Parallel()
	v := NewFileValidator(0, nil)

	require.NoError(t, v.ValidateFileSize(50*1024*1024))

	err := v.ValidateFileSize(51 * 1024 * 1024)
	require.Error(t, err)

	var sizeErr *FileSizeError
	require.True(t, errors.As(err, &sizeErr))
	require.Equal(t, int64(51), sizeErr.SizeMB)
	require.Equal(t, int64(50), sizeErr.MaxMB)
	require.True(t, IsValidationError(err))
}

func TestValidateFileSizeOversizedBeatsOtherChecks(t *testing.T) {
	t.Parallel()
	v := NewFileValidator(0, nil)

	// size check fires first even when mime and name are both invalid
	err := v.ValidateFile(FileMetadata{
		Size:         100 * 1024 * 1024,
		MimeType:     "application/pdf",
		OriginalName: "nota.pdf",
	})
	var sizeErr *FileSizeError
	require.True(t, errors.As(err, &sizeErr))
}

func TestValidateMimeType(t *testing.T) {
	t.Parallel()
	v := NewFileValidator(0, nil)

	for _, mime := range []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml"} {
		require.NoError(t, v.ValidateMimeType(mime))
	}

	err := v.ValidateMimeType("application/pdf")
	var typeErr *FileTypeError
	require.True(t, errors.As(err, &typeErr))
	require.Contains(t, typeErr.Message, "application/pdf")
	require.True(t, IsValidationError(err))
}

func TestValidateFileExtension(t *testing.T) {
	t.Parallel()
	v := NewFileValidator(0, nil)

	cases := []struct {
		name     string
		fileName string
		mimeType string
		wantErr  string
	}{
		{"jpg ok", "photo.jpg", "image/jpeg", ""},
		{"jpeg ok", "photo.jpeg", "image/jpeg", ""},
		{"uppercase ok", "PHOTO.PNG", "image/png", ""},
		{"mismatch", "photo.png", "image/jpeg", "does not match MIME type"},
		{"unknown mime", "photo.png", "application/pdf", "invalid MIME type"},
		{"no extension", "photo", "image/png", "does not match MIME type"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateFileExtension(tc.fileName, tc.mimeType)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
			require.True(t, IsValidationError(err))
		})
	}
}

func TestValidateFileOrder(t *testing.T) {
	t.Parallel()
	v := NewFileValidator(0, nil)

	require.NoError(t, v.ValidateFile(FileMetadata{
		Size:         1024,
		MimeType:     "image/gif",
		OriginalName: "loop.gif",
	}))

	// valid size and mime, bad extension
	err := v.ValidateFile(FileMetadata{
		Size:         1024,
		MimeType:     "image/gif",
		OriginalName: "loop.png",
	})
	var typeErr *FileTypeError
	require.True(t, errors.As(err, &typeErr))
}

func TestCustomPolicy(t *testing.T) {
	t.Parallel()
	v := NewFileValidator(1, map[string][]string{
		"image/png": {".png"},
	})

	require.EqualValues(t, 1024*1024, v.MaxFileSize())
	require.Error(t, v.ValidateFileSize(2*1024*1024))
	require.Error(t, v.ValidateMimeType("image/jpeg"))
	require.NoError(t, v.ValidateFile(FileMetadata{
		Size:         100,
		MimeType:     "image/png",
		OriginalName: "dot.png",
	}))
	require.Len(t, v.AllowedMimeTypes(), 1)
}

func TestIsValidationErrorIgnoresOtherErrors(t *testing.T) {
	t.Parallel()
	require.False(t, IsValidationError(errors.New("boom")))
	require.False(t, IsValidationError(nil))
}
