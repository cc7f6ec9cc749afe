// Package errhandler classifies runtime errors into validation, operational
// and fatal buckets and logs them with caller-supplied context.
package errhandler

import (
	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	"github.com/Laisky/laisky-media-bot/library/log"
	"github.com/Laisky/laisky-media-bot/library/validate"
)

// ErrorType is the classification bucket attached to every logged error.
type ErrorType string

const (
	// TypeValidation covers file validation failures, surfaced to users as-is.
	TypeValidation ErrorType = "validation"
	// TypeOperational covers expected storage and datastore failures.
	TypeOperational ErrorType = "operational"
	// TypeFatal covers everything unclassified.
	TypeFatal ErrorType = "fatal"
)

// Handler logs classified errors. The process is never terminated here;
// only startup code may exit on error.
type Handler struct {
	logger logSDK.Logger
}

// New creates a Handler. A nil logger falls back to the shared one.
func New(logger logSDK.Logger) *Handler {
	if logger == nil {
		logger = log.Logger.Named("errhandler")
	}

	return &Handler{logger: logger}
}

// Classify maps an error to its bucket.
func Classify(err error) ErrorType {
	if validate.IsValidationError(err) {
		return TypeValidation
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrRecordNotFound) {
		return TypeOperational
	}

	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		return TypeOperational
	}

	return TypeFatal
}

// HandleError routes the error to the matching bucket and logs it with
// the given context fields.
func (h *Handler) HandleError(err error, fields ...zap.Field) {
	if err == nil {
		return
	}

	switch Classify(err) {
	case TypeValidation:
		h.HandleValidationError(err, fields...)
	case TypeOperational:
		h.HandleOperationalError(err, fields...)
	default:
		h.HandleFatalError(err, fields...)
	}
}

// HandleValidationError logs a file validation failure.
func (h *Handler) HandleValidationError(err error, fields ...zap.Field) {
	fields = append(fields, zap.String("error_type", string(TypeValidation)))
	h.logger.Error("validation error occurred", append(fields, zap.Error(err))...)
}

// HandleOperationalError logs an expected storage or datastore failure.
func (h *Handler) HandleOperationalError(err error, fields ...zap.Field) {
	fields = append(fields, zap.String("error_type", string(TypeOperational)))
	h.logger.Error("operational error occurred", append(fields, zap.Error(err))...)
}

// HandleFatalError logs an unclassified failure. Callers still degrade to a
// generic user-facing message rather than crash.
func (h *Handler) HandleFatalError(err error, fields ...zap.Field) {
	fields = append(fields, zap.String("error_type", string(TypeFatal)))
	h.logger.Error("fatal application error occurred", append(fields, zap.Error(err))...)
}
