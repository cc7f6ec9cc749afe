package controller

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v6"
	"github.com/Laisky/zap"
	tb "gopkg.in/telebot.v3"

	"github.com/Laisky/laisky-media-bot/internal/bot/media/model"
	"github.com/Laisky/laisky-media-bot/internal/bot/media/service"
	"github.com/Laisky/laisky-media-bot/library/validate"
)

func (s *Telegram) registerMakeCommandHandler() {
	s.bot.Handle("/makecommand", func(c tb.Context) error {
		m := c.Message()
		if m.Sender == nil || m.Sender.IsBot {
			return nil
		}

		args := c.Args()
		if len(args) == 0 {
			return c.Reply(gutils.Dedent(`
				Usage: /makecommand <name> [image link]

				Provide the image either by a link, or send the command
				without a link and reply with a photo or file.`))
		}

		name := args[0]
		if len(args) > 1 {
			s.makeCommandFromLink(s.ctx, c, name, args[1])
			return nil
		}

		s.armPendingUpload(m.Sender, name)
		return c.Reply("Please send the image you want to bind to " +
			s.cfg.Prefix + service.SanitizeCommandName(name) + ", as a photo or file.")
	})
}

// makeCommandFromLink registers an image command from a remote URL.
func (s *Telegram) makeCommandFromLink(ctx context.Context, c tb.Context, name, link string) {
	logger := s.logger.With(
		zap.String("guild_id", guildID(c.Chat())),
		zap.String("name", name),
	)
	logger.Debug("make command from link", zap.String("link", link))

	content, contentType, err := s.fetchRemoteImage(ctx, link)
	if err != nil {
		logger.Error("fetch remote image", zap.Error(err))
		s.replyError(c, err)
		return
	}

	s.processMediaUpload(ctx, c, name, "", content, contentType)
}

// makeCommandFromAttachment completes a pending upload with the photo or
// document the user just sent.
func (s *Telegram) makeCommandFromAttachment(ctx context.Context, c tb.Context, us *userStat) {
	m := c.Message()
	logger := s.logger.With(
		zap.String("guild_id", guildID(c.Chat())),
		zap.String("name", us.name),
	)

	var (
		telFp       *tb.File
		fileName    string
		contentType string
	)
	switch {
	case m.Document != nil:
		logger.Debug("receive document",
			zap.Int64("size", m.Document.FileSize),
			zap.String("type", m.Document.MIME),
			zap.String("file_name", m.Document.FileName))
		telFp = &m.Document.File
		fileName = m.Document.FileName
		contentType = m.Document.MIME
	case m.Photo != nil:
		logger.Debug("receive photo",
			zap.Int64("size", m.Photo.FileSize))
		telFp = &m.Photo.File
		contentType = "image/png"
	default:
		s.PleaseRetry(us.user, "please send a photo or file")
		return
	}

	fp, err := s.bot.File(telFp)
	if err != nil {
		logger.Error("download file from telegram", zap.Error(err))
		s.replyError(c, errors.Wrap(err, "download file from telegram"))
		return
	}
	defer fp.Close() // nolint:errcheck

	content, err := io.ReadAll(fp)
	if err != nil {
		logger.Error("read file content", zap.Error(err))
		s.replyError(c, errors.Wrap(err, "read file content"))
		return
	}

	s.processMediaUpload(ctx, c, us.name, fileName, content, contentType)
}

// processMediaUpload validates and uploads the bytes, persists the record,
// then reports back to the chat. origFileName may be empty, in which case a
// unique name is generated from the command name.
func (s *Telegram) processMediaUpload(ctx context.Context, c tb.Context,
	name, origFileName string, content []byte, contentType string,
) {
	gid := guildID(c.Chat())
	fileName := origFileName
	if fileName == "" {
		fileName = generateFileName(name, origFileName)
	}

	if err := s.validator.ValidateFile(validate.FileMetadata{
		Size:         int64(len(content)),
		MimeType:     contentType,
		OriginalName: fileName,
	}); err != nil {
		s.errHandler.HandleError(err,
			zap.String("file_name", fileName),
			zap.String("guild_id", gid),
			zap.String("operation", "upload"))
		s.replyError(c, err)
		return
	}

	uploadedURL, err := s.uploader.HandleUpload(ctx, service.File{
		Name:     fileName,
		Content:  content,
		MimeType: contentType,
	}, &model.Media{
		Name:       name,
		GuildID:    gid,
		UploadedBy: strconv.FormatInt(c.Sender().ID, 10),
	})
	if err != nil {
		s.replyError(c, err)
		return
	}

	invocation := s.cfg.Prefix + service.SanitizeCommandName(name)
	photo := &tb.Photo{
		File:    tb.FromURL(uploadedURL),
		Caption: fmt.Sprintf("Command created! Use it with %s", invocation),
	}
	if err = c.Send(photo); err != nil {
		s.logger.Error("send msg by telegram", zap.Error(err))
	}
}

// generateFileName builds a unique object name when the platform supplied
// none: <name>-<6 digit>.<ext>, extension taken from the original file name
// when present, png otherwise.
func generateFileName(name, origFileName string) string {
	ext := "png"
	if idx := strings.LastIndex(origFileName, "."); idx >= 0 && idx < len(origFileName)-1 {
		ext = origFileName[idx+1:]
	}

	uniqueID := 100000 + rand.Intn(900000) // nolint:gosec
	return fmt.Sprintf("%s-%d.%s", name, uniqueID, ext)
}

// replyError reports a readable message for validation failures and a
// generic one for everything else, never leaking internals to chat.
func (s *Telegram) replyError(c tb.Context, err error) {
	if sendErr := c.Reply(formatErrorMessage(err)); sendErr != nil {
		s.logger.Error("send msg by telegram", zap.Error(sendErr))
	}
}

func formatErrorMessage(err error) string {
	var sizeErr *validate.FileSizeError
	if errors.As(err, &sizeErr) {
		return fmt.Sprintf("File size too large. Maximum size is %dMB.", sizeErr.MaxMB)
	}

	var typeErr *validate.FileTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("Invalid file type. %s.", typeErr.Message)
	}

	return "An unexpected error occurred while processing your command. Please try again later."
}
