// Package validate enforces size and type policy on candidate media files.
package validate

import (
	"fmt"
	"strings"

	"github.com/Laisky/errors/v2"
)

// DefaultMaxFileSizeMB is the upload size cap applied when no policy is supplied.
const DefaultMaxFileSizeMB = 50

// DefaultAllowedMimeTypes maps each accepted MIME type to its legal file extensions.
var DefaultAllowedMimeTypes = map[string][]string{
	"image/jpeg":    {".jpg", ".jpeg"},
	"image/png":     {".png"},
	"image/gif":     {".gif"},
	"image/webp":    {".webp"},
	"image/svg+xml": {".svg"},
}

// FileMetadata describes a candidate file without touching its bytes.
type FileMetadata struct {
	Size         int64
	MimeType     string
	OriginalName string
}

// FileSizeError reports a file that exceeds the configured size cap.
type FileSizeError struct {
	SizeMB int64
	MaxMB  int64
}

func (e *FileSizeError) Error() string {
	return fmt.Sprintf("file size %dMB exceeds maximum allowed size of %dMB",
		e.SizeMB, e.MaxMB)
}

func (e *FileSizeError) validationError() {}

// FileTypeError reports a MIME type outside the allow-list or an
// extension that does not belong to the declared MIME type.
type FileTypeError struct {
	Message string
}

func (e *FileTypeError) Error() string {
	return e.Message
}

func (e *FileTypeError) validationError() {}

type validationError interface {
	error
	validationError()
}

// IsValidationError reports whether err is a file validation failure.
func IsValidationError(err error) bool {
	var ve validationError
	return errors.As(err, &ve)
}

// FileValidator validates candidate files against a size cap and a MIME allow-list.
// It is pure configuration plus inputs, safe for concurrent use.
type FileValidator struct {
	maxSizeBytes     int64
	maxSizeMB        int64
	allowedMimeTypes map[string][]string
}

// NewFileValidator creates a validator. Zero maxSizeMB and nil allowedTypes
// fall back to the defaults above.
func NewFileValidator(maxSizeMB int64, allowedTypes map[string][]string) *FileValidator {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxFileSizeMB
	}
	if allowedTypes == nil {
		allowedTypes = DefaultAllowedMimeTypes
	}

	return &FileValidator{
		maxSizeBytes:     maxSizeMB * 1024 * 1024,
		maxSizeMB:        maxSizeMB,
		allowedMimeTypes: allowedTypes,
	}
}

// ValidateFileSize checks the size cap.
func (v *FileValidator) ValidateFileSize(size int64) error {
	if size > v.maxSizeBytes {
		return &FileSizeError{
			SizeMB: (size + 512*1024) / (1024 * 1024),
			MaxMB:  v.maxSizeMB,
		}
	}

	return nil
}

// ValidateMimeType checks membership in the allow-list.
func (v *FileValidator) ValidateMimeType(mimeType string) error {
	if _, ok := v.allowedMimeTypes[mimeType]; !ok {
		return &FileTypeError{
			Message: "invalid file type: " + mimeType + ", only media files are allowed",
		}
	}

	return nil
}

// ValidateFileExtension checks that the file name's extension belongs to
// the declared MIME type. The extension is taken after the last dot,
// case-insensitively.
func (v *FileValidator) ValidateFileExtension(fileName, mimeType string) error {
	lowered := strings.ToLower(fileName)
	ext := lowered[strings.LastIndex(lowered, ".")+1:]
	ext = "." + ext

	allowed, ok := v.allowedMimeTypes[mimeType]
	if !ok {
		return &FileTypeError{Message: "invalid MIME type: " + mimeType}
	}

	for _, candidate := range allowed {
		if candidate == ext {
			return nil
		}
	}

	return &FileTypeError{
		Message: "file extension " + ext + " does not match MIME type " + mimeType,
	}
}

// ValidateFile runs all checks in order: size, MIME type, extension.
// The first violation is returned.
func (v *FileValidator) ValidateFile(meta FileMetadata) error {
	if err := v.ValidateFileSize(meta.Size); err != nil {
		return err
	}
	if err := v.ValidateMimeType(meta.MimeType); err != nil {
		return err
	}
	if err := v.ValidateFileExtension(meta.OriginalName, meta.MimeType); err != nil {
		return err
	}

	return nil
}

// AllowedMimeTypes returns the configured allow-list.
func (v *FileValidator) AllowedMimeTypes() map[string][]string {
	return v.allowedMimeTypes
}

// MaxFileSize returns the configured size cap in bytes.
func (v *FileValidator) MaxFileSize() int64 {
	return v.maxSizeBytes
}
