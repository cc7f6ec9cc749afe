package service

import (
	"context"
	"regexp"
	"strings"

	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/Laisky/laisky-media-bot/internal/bot/media/dao"
	"github.com/Laisky/laisky-media-bot/internal/bot/media/model"
	"github.com/Laisky/laisky-media-bot/library/errhandler"
	"github.com/Laisky/laisky-media-bot/library/log"
)

// File is an in-memory upload candidate: named bytes with a declared MIME type.
type File struct {
	Name     string
	Content  []byte
	MimeType string
}

// Size returns the byte length of the file content.
func (f File) Size() int64 {
	return int64(len(f.Content))
}

// ImageStore is the capability set the upload handler needs from object
// storage. *dao.ImageStore implements it.
type ImageStore interface {
	UploadImage(ctx context.Context, name string, content []byte) (string, error)
	GetImageURL(ctx context.Context, name string) (string, error)
	DeleteImage(ctx context.Context, name string) error
}

var _ ImageStore = (*dao.ImageStore)(nil)

var illegalFileNameChar = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeFileName replaces the first character outside [A-Za-z0-9] with an
// underscore. Only the first match is replaced; later characters, including
// the extension's dot, pass through untouched.
func SanitizeFileName(fileName string) string {
	loc := illegalFileNameChar.FindStringIndex(fileName)
	if loc == nil {
		return fileName
	}

	return fileName[:loc[0]] + "_" + fileName[loc[1]:]
}

// SanitizeCommandName lowercases the command name for consistent invocation.
func SanitizeCommandName(commandName string) string {
	return strings.ToLower(commandName)
}

// UploadHandler orchestrates an upload: sanitize names, store the object,
// persist the record. No compensation runs when the record insert fails
// after a successful store write; the orphaned object stays.
type UploadHandler struct {
	media      Interface
	store      ImageStore
	logger     logSDK.Logger
	errHandler *errhandler.Handler
}

// NewUploadHandler create new upload handler
func NewUploadHandler(media Interface, store ImageStore,
	logger logSDK.Logger, errHandler *errhandler.Handler,
) *UploadHandler {
	if logger == nil {
		logger = log.Logger.Named("upload_handler")
	}
	if errHandler == nil {
		errHandler = errhandler.New(logger)
	}

	return &UploadHandler{
		media:      media,
		store:      store,
		logger:     logger,
		errHandler: errHandler,
	}
}

// HandleUpload uploads the file under its sanitized name and persists a
// record keyed by file.Name as supplied, not the sanitized name.
// Returns the public URL.
func (h *UploadHandler) HandleUpload(ctx context.Context, file File, record *model.Media) (string, error) {
	sanitizedName := SanitizeFileName(file.Name)
	sanitizedCommandName := SanitizeCommandName(record.Name)

	errCtx := []zap.Field{
		zap.String("file_name", sanitizedName),
		zap.Int64("file_size", file.Size()),
		zap.String("mime_type", file.MimeType),
		zap.String("guild_id", record.GuildID),
		zap.String("operation", "upload"),
	}

	uploadedURL, err := h.store.UploadImage(ctx, sanitizedName, file.Content)
	if err != nil {
		h.errHandler.HandleError(err, errCtx...)
		return "", err
	}

	if _, err = h.media.CreateMediaRecord(ctx, &model.Media{
		Name:       sanitizedCommandName,
		GuildID:    record.GuildID,
		FileKey:    file.Name,
		URL:        uploadedURL,
		UploadedBy: record.UploadedBy,
		MimeType:   file.MimeType,
		FileSize:   file.Size(),
	}); err != nil {
		h.errHandler.HandleError(err, errCtx...)
		return "", err
	}

	h.logger.Info("upload complete", zap.String("file_name", sanitizedName))
	return uploadedURL, nil
}
