package controller

import (
	"fmt"
	"strings"

	"github.com/Laisky/zap"
	tb "gopkg.in/telebot.v3"

	"github.com/Laisky/laisky-media-bot/internal/bot/media/model"
	"github.com/Laisky/laisky-media-bot/internal/bot/media/service"
)

func (s *Telegram) registerListCommandsHandler() {
	s.bot.Handle("/listcommands", func(c tb.Context) error {
		m := c.Message()
		if m.Sender == nil || m.Sender.IsBot {
			return nil
		}

		gid := guildID(c.Chat())
		opts := parseViewOptions(c.Args())

		medias, err := s.viewer.OrganizedGuildMedia(s.ctx, gid, opts)
		if err != nil {
			s.logger.Error("list commands", zap.Error(err), zap.String("guild_id", gid))
			return c.Reply("An error occurred while fetching the command list. Please try again later.")
		}

		return c.Reply(s.renderMediaList(medias, opts))
	})
}

// parseViewOptions reads key:value arguments (sort:recent, reverse:true).
// Unknown keys and malformed values fall back to the defaults.
func parseViewOptions(args []string) service.ViewOptions {
	opts := service.ViewOptions{SortBy: service.SortAlphabetical}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		if !ok {
			continue
		}

		switch key {
		case "sort":
			switch value {
			case string(service.SortRecent):
				opts.SortBy = service.SortRecent
			case string(service.SortAlphabetical):
				opts.SortBy = service.SortAlphabetical
			}
		case "reverse":
			opts.Reverse = value == "true"
		}
	}

	return opts
}

// renderMediaList formats the sorted media as a chat-friendly listing.
func (s *Telegram) renderMediaList(medias []*model.Media, opts service.ViewOptions) string {
	if len(medias) == 0 {
		return "No image commands yet. Create one with /makecommand."
	}

	order := "A-Z"
	switch {
	case opts.SortBy == service.SortRecent && !opts.Reverse:
		order = "newest first"
	case opts.SortBy == service.SortRecent && opts.Reverse:
		order = "oldest first"
	case opts.SortBy == service.SortAlphabetical && opts.Reverse:
		order = "Z-A"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Image commands (%d, %s):\n", len(medias), order)
	for _, media := range medias {
		fmt.Fprintf(&b, "%s%s - added %s\n",
			s.cfg.Prefix, media.Name, media.CreatedAt.Format("2006-01-02"))
	}

	return strings.TrimRight(b.String(), "\n")
}
