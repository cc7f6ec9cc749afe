// Package controller adapts Telegram updates onto the media services.
package controller

import (
	"strconv"
	"strings"

	"github.com/Laisky/errors/v2"
	tb "gopkg.in/telebot.v3"
)

// commandLister is the slice of the bot API the registry needs,
// satisfied by *tb.Bot and fakeable in tests.
type commandLister interface {
	Commands(opts ...interface{}) ([]tb.Command, error)
}

// CommandSource tells where a registered command was found.
type CommandSource string

const (
	// CommandSourceGlobal marks commands registered for every chat.
	CommandSourceGlobal CommandSource = "global"
	// CommandSourceGuild marks commands registered for one chat only.
	CommandSourceGuild CommandSource = "guild"
)

// CommandSearchResult pairs a registered command with its source.
type CommandSearchResult struct {
	Command tb.Command
	Source  CommandSource
}

// CommandRegistry queries the bot's registered commands by name.
type CommandRegistry struct {
	bot commandLister
}

// NewCommandRegistry create new command registry
func NewCommandRegistry(bot commandLister) *CommandRegistry {
	return &CommandRegistry{bot: bot}
}

// AllCommands fetches the global command list and, when guildID is supplied,
// the guild-scoped list as well.
func (r *CommandRegistry) AllCommands(guildID string) (global, guild []tb.Command, err error) {
	global, err = r.bot.Commands()
	if err != nil {
		return nil, nil, errors.Wrap(err, "fetch commands")
	}

	if guildID != "" {
		chatID, err := strconv.ParseInt(guildID, 10, 64)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "fetch commands: parse guild id %q", guildID)
		}

		guild, err = r.bot.Commands(tb.CommandScope{
			Type:   tb.CommandScopeChat,
			ChatID: chatID,
		})
		if err != nil {
			return nil, nil, errors.Wrap(err, "fetch commands")
		}
	}

	return global, guild, nil
}

// FindCommandByName searches guild-scoped commands first (when guildID is
// supplied), then global ones, case-insensitive on name. Returns nil on miss.
func (r *CommandRegistry) FindCommandByName(name, guildID string) (*CommandSearchResult, error) {
	global, guild, err := r.AllCommands(guildID)
	if err != nil {
		return nil, err
	}

	searchName := strings.ToLower(name)
	for _, cmd := range guild {
		if strings.ToLower(cmd.Text) == searchName {
			return &CommandSearchResult{Command: cmd, Source: CommandSourceGuild}, nil
		}
	}

	for _, cmd := range global {
		if strings.ToLower(cmd.Text) == searchName {
			return &CommandSearchResult{Command: cmd, Source: CommandSourceGlobal}, nil
		}
	}

	return nil, nil
}

// CommandMention renders the inline token Telegram turns into a tappable
// command, or the empty string when the command is not registered.
func (r *CommandRegistry) CommandMention(name, guildID string) (string, error) {
	result, err := r.FindCommandByName(name, guildID)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", nil
	}

	return "/" + result.Command.Text, nil
}
