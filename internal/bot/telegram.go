package bot

import (
	"context"
	"fmt"
	"slices"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/fstr21/sportsmcp/internal/logger"
	"github.com/rs/zerolog"
)

// Config holds bot settings.
type Config struct {
	Token          string
	UpdateTimeout  int
	AllowedUserIDs []int64 // Optional: restrict access to specific users
}

// Bot serves Commands over the Telegram long-polling API.
type Bot struct {
	api      *tgbotapi.BotAPI
	commands *Commands
	config   Config
	logger   zerolog.Logger
}

// New authorizes against Telegram.
func New(cfg Config, commands *Commands, log zerolog.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.UpdateTimeout <= 0 {
		cfg.UpdateTimeout = 60
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating bot: %w", err)
	}
	api.Debug = false

	log = logger.Component(log, "telegram")
	log.Info().Str("account", api.Self.UserName).Msg("authorized")

	return &Bot{api: api, commands: commands, config: cfg, logger: log}, nil
}

// Run handles updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.config.UpdateTimeout
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			go b.handle(ctx, update.Message)
		}
	}
}

func (b *Bot) handle(ctx context.Context, message *tgbotapi.Message) {
	log := b.logger.With().Int64("user_id", message.From.ID).Int64("chat_id", message.Chat.ID).Logger()

	if !Allowed(b.config.AllowedUserIDs, message.From.ID) {
		log.Warn().Msg("access denied")
		b.send(message.Chat.ID, "Access denied. You are not authorized to use this bot.", log)
		return
	}

	// Show "typing..." indicator
	b.api.Request(tgbotapi.NewChatAction(message.Chat.ID, tgbotapi.ChatTyping))

	reply := b.commands.Handle(ctx, message.Text)
	if reply == "" {
		return
	}
	log.Debug().Str("command", message.Command()).Msg("replying")
	b.send(message.Chat.ID, reply, log)
}

func (b *Bot) send(chatID int64, text string, log zerolog.Logger) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Msg("failed to send message")
	}
}

// Allowed reports whether userID may use the bot. An empty list allows all.
func Allowed(allowed []int64, userID int64) bool {
	return len(allowed) == 0 || slices.Contains(allowed, userID)
}
