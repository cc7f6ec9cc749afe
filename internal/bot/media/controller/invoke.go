package controller

import (
	"context"
	"strings"

	"github.com/Laisky/zap"
	tb "gopkg.in/telebot.v3"
)

// invokeHandler serves the free-text trigger: a message like "$cat" replays
// the image registered under "cat" in this chat. Unknown names are ignored
// silently, and failures never surface to the chat.
func (s *Telegram) invokeHandler(ctx context.Context, c tb.Context) {
	m := c.Message()
	if !strings.HasPrefix(m.Text, s.cfg.Prefix) {
		return
	}

	commandName := strings.TrimSpace(m.Text[len(s.cfg.Prefix):])
	if commandName == "" {
		return
	}

	gid := guildID(c.Chat())
	logger := s.logger.With(
		zap.String("guild_id", gid),
		zap.String("command", commandName),
	)
	logger.Info("processing image command")

	media, err := s.media.GetMediaByName(ctx, commandName, gid)
	if err != nil {
		logger.Error("processing image command", zap.Error(err))
		return
	}
	if media == nil {
		return
	}

	if err = c.Send(&tb.Photo{File: tb.FromURL(media.URL)}); err != nil {
		logger.Error("send msg by telegram", zap.Error(err))
	}
}
