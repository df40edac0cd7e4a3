package service

import (
	"context"
	"fmt"
	"strconv"

	"market-intel/config"
	"market-intel/pkg/logger"

	"gopkg.in/telebot.v3"
)

// Notifier pushes a human-readable digest of a pipeline run to an operator
// channel. A nil Notifier is valid and means notifications are disabled.
type Notifier interface {
	SendRunSummary(ctx context.Context, summary *RunSummary) error
}

type telegramNotifier struct {
	bot    *telebot.Bot
	chatID telebot.ChatID
	log    *logger.Logger
}

// NewTelegramNotifier returns nil without error when no bot token or chat id
// is configured, so callers can wire it unconditionally.
func NewTelegramNotifier(cfg *config.TelegramConfig, log *logger.Logger) (Notifier, error) {
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return nil, nil
	}

	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %w", cfg.ChatID, err)
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token: cfg.BotToken,
		OnError: func(err error, c telebot.Context) {
			log.Error("Telegram bot error", logger.ErrorField(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &telegramNotifier{bot: bot, chatID: telebot.ChatID(chatID), log: log}, nil
}

func (n *telegramNotifier) SendRunSummary(ctx context.Context, summary *RunSummary) error {
	message := fmt.Sprintf(
		"📊 *Market Intelligence Run*\n\n"+
			"*Themes:* %d new, %d skipped\n"+
			"*Recommendations:* %d new, %d skipped\n"+
			"*Price points:* %d\n"+
			"*Articles:* %d\n"+
			"*Item failures:* %d",
		summary.ThemesStored, summary.ThemesSkipped,
		summary.RecommendationsStored, summary.RecommendationsSkipped,
		summary.PricePointsInserted, summary.ArticlesInserted,
		summary.ItemFailures,
	)

	_, err := n.bot.Send(n.chatID, message, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	if err != nil {
		return fmt.Errorf("send run summary: %w", err)
	}
	return nil
}
