package controller

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v6"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	tb "gopkg.in/telebot.v3"

	"github.com/Laisky/laisky-media-bot/internal/bot/media/service"
	"github.com/Laisky/laisky-media-bot/library/errhandler"
	"github.com/Laisky/laisky-media-bot/library/log"
	"github.com/Laisky/laisky-media-bot/library/validate"
)

// DefaultPrefix triggers free-text image command invocation.
const DefaultPrefix = "$"

const userWaitUploadFile = "wait_upload_file"

// pendingUploadTTL bounds how long an armed /makecommand waits for its file.
const pendingUploadTTL = 10 * time.Minute

// userStat tracks a per-user pending upload armed by /makecommand.
type userStat struct {
	user *tb.User
	// state is the flow step the user is in
	state string
	// name is the command name the pending upload will register
	name  string
	lastT time.Time
}

// Config configures the Telegram bot surface.
type Config struct {
	Token string
	// API overrides the Telegram API endpoint, empty for the default.
	API string
	// Prefix triggers free-text invocation, DefaultPrefix when empty.
	Prefix string
	// MaxSizeMB caps uploads; zero falls back to the validator default.
	MaxSizeMB int64
}

// Telegram owns the bot connection and dispatches updates onto the
// media services. Each update is handled independently; the pending
// upload map is the only in-process shared state.
type Telegram struct {
	ctx      context.Context
	stop     chan struct{}
	stopOnce sync.Once
	bot      *tb.Bot

	cfg        Config
	media      service.Interface
	uploader   *service.UploadHandler
	viewer     *service.MediaViewer
	registry   *CommandRegistry
	validator  *validate.FileValidator
	errHandler *errhandler.Handler
	httpCli    *http.Client
	logger     logSDK.Logger

	userStats *sync.Map
}

// New create new telegram bot surface and start consuming updates.
func New(ctx context.Context,
	cfg Config,
	media service.Interface,
	uploader *service.UploadHandler,
	viewer *service.MediaViewer,
) (*Telegram, error) {
	bot, err := tb.NewBot(tb.Settings{
		Token: cfg.Token,
		URL:   cfg.API,
		Poller: &tb.LongPoller{
			Timeout: 10 * time.Second,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "new telegram bot")
	}

	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}

	logger := log.Logger.Named("telegram")
	tel := &Telegram{
		ctx:        ctx,
		stop:       make(chan struct{}),
		bot:        bot,
		cfg:        cfg,
		media:      media,
		uploader:   uploader,
		viewer:     viewer,
		registry:   NewCommandRegistry(bot),
		validator:  validate.NewFileValidator(cfg.MaxSizeMB, nil),
		errHandler: errhandler.New(logger),
		httpCli:    &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		userStats:  new(sync.Map),
	}

	if err = bot.SetCommands([]tb.Command{
		{Text: "makecommand", Description: "Create a new image command from an attachment or link"},
		{Text: "listcommands", Description: "View all available image commands"},
		{Text: "help", Description: "Show how to use the bot"},
	}); err != nil {
		return nil, errors.Wrap(err, "set bot commands")
	}

	tel.registerMakeCommandHandler()
	tel.registerListCommandsHandler()
	tel.registerHelpHandler()
	tel.runDefaultHandlers()

	go bot.Start()
	go func() {
		select {
		case <-ctx.Done():
		case <-tel.stop:
		}
		bot.Stop()
	}()

	return tel, nil
}

// Stop stop telegram polling. Safe to call more than once, and returns
// even when the poller already shut down on context cancellation.
func (s *Telegram) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// guildID is the scoping unit for all media records: the chat the
// update came from.
func guildID(chat *tb.Chat) string {
	return strconv.FormatInt(chat.ID, 10)
}

func (s *Telegram) runDefaultHandlers() {
	s.bot.Handle(tb.OnText, func(c tb.Context) error {
		m := c.Message()
		if m.Sender == nil || m.Sender.IsBot {
			return nil
		}

		s.invokeHandler(s.ctx, c)
		return nil
	})

	s.bot.Handle(tb.OnPhoto, func(c tb.Context) error {
		return s.dispatchPendingUpload(s.ctx, c)
	})

	s.bot.Handle(tb.OnDocument, func(c tb.Context) error {
		return s.dispatchPendingUpload(s.ctx, c)
	})
}

// dispatchPendingUpload completes a /makecommand flow armed earlier by the
// same user, ignoring stray media messages.
func (s *Telegram) dispatchPendingUpload(ctx context.Context, c tb.Context) error {
	m := c.Message()
	if m.Sender == nil || m.Sender.IsBot {
		return nil
	}

	us := s.takePendingUpload(m.Sender.ID)
	if us == nil {
		return nil
	}

	s.makeCommandFromAttachment(ctx, c, us)
	return nil
}

// takePendingUpload pops the user's armed upload state. States in the wrong
// step or older than pendingUploadTTL are discarded and nil is returned.
func (s *Telegram) takePendingUpload(userID int64) *userStat {
	stat, ok := s.userStats.Load(userID)
	if !ok {
		return nil
	}
	s.userStats.Delete(userID)

	us := stat.(*userStat)
	if us.state != userWaitUploadFile {
		return nil
	}
	if gutils.Clock.GetUTCNow().Sub(us.lastT) > pendingUploadTTL {
		s.logger.Debug("pending upload expired",
			zap.Int64("uid", userID), zap.String("name", us.name))
		return nil
	}

	return us
}

// PleaseRetry echo retry
func (s *Telegram) PleaseRetry(sender *tb.User, msg string) {
	s.logger.Warn("unknown msg", zap.String("msg", msg))
	if _, err := s.bot.Send(sender, "[Error] unknown msg, please retry"); err != nil {
		s.logger.Error("send msg by telegram", zap.Error(err))
	}
}

func (s *Telegram) armPendingUpload(sender *tb.User, name string) {
	s.userStats.Store(sender.ID, &userStat{
		user:  sender,
		state: userWaitUploadFile,
		name:  name,
		lastT: gutils.Clock.GetUTCNow(),
	})
}

// fetchRemoteImage downloads the bytes behind a link, returning content and
// the declared content type (image/png when the server stays silent).
func (s *Telegram) fetchRemoteImage(ctx context.Context, link string) (content []byte, contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "new request")
	}

	resp, err := s.httpCli.Do(req)
	if err != nil {
		return nil, "", errors.Wrap(err, "fetch remote image")
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, "", errors.Errorf("http error: status %d", resp.StatusCode)
	}

	content, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrap(err, "read remote image")
	}

	contentType = resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}

	return content, contentType, nil
}
