package controller

import (
	"fmt"
	"strings"

	gutils "github.com/Laisky/go-utils/v6"
	"github.com/Laisky/zap"
	tb "gopkg.in/telebot.v3"
)

func (s *Telegram) registerHelpHandler() {
	s.bot.Handle("/help", func(c tb.Context) error {
		m := c.Message()
		if m.Sender == nil || m.Sender.IsBot {
			return nil
		}

		var mentions []string
		for _, name := range []string{"makecommand", "listcommands", "help"} {
			mention, err := s.registry.CommandMention(name, guildID(c.Chat()))
			if err != nil {
				s.logger.Error("fetch command mention", zap.Error(err))
				continue
			}
			if mention != "" {
				mentions = append(mentions, mention)
			}
		}

		return c.Reply(fmt.Sprintf(gutils.Dedent(`
			I replay images bound to command words.

			Commands: %s

			Create one with /makecommand <name> [image link],
			then trigger it by sending %s<name> in the chat.`),
			strings.Join(mentions, ", "), s.cfg.Prefix))
	})
}
