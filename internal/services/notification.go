package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"github.com/cryptocallout/cryptocallout-go/internal/config"
	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

// streakAlertThreshold is the minimum streak magnitude that triggers an alert.
const streakAlertThreshold = 3

// NotificationService announces notable resolution events to a Telegram
// channel. When no bot token or chat ID is configured every call is a no-op.
type NotificationService struct {
	bot    *bot.Bot
	chatID int64
	logger *logrus.Logger
}

func NewNotificationService(cfg config.TelegramConfig, logger *logrus.Logger) *NotificationService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	ns := &NotificationService{logger: logger}
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return ns
	}

	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		logger.WithError(err).Warn("Invalid telegram chat ID, notifications disabled")
		return ns
	}

	b, err := bot.New(cfg.BotToken)
	if err != nil {
		logger.WithError(err).Warn("Failed to initialize telegram bot, notifications disabled")
		return ns
	}

	ns.bot = b
	ns.chatID = chatID
	return ns
}

// Enabled reports whether the service has a working bot and destination chat.
func (ns *NotificationService) Enabled() bool {
	return ns.bot != nil
}

// NotifyResolution sends alerts for a freshly resolved prediction: one when
// the influencer's streak reaches the alert threshold and one when the
// resolution moved them into a new tier.
func (ns *NotificationService) NotifyResolution(ctx context.Context, influencer models.Influencer, prediction models.PredictionRecord, streak int, previousTier, currentTier models.Tier) {
	if !ns.Enabled() {
		return
	}

	if streak >= streakAlertThreshold || streak <= -streakAlertThreshold {
		if err := ns.send(ctx, formatStreakMessage(influencer, prediction, streak)); err != nil {
			ns.logger.WithError(err).WithField("influencer_id", influencer.ID).Error("Failed to send streak alert")
		}
	}

	if previousTier != currentTier {
		if err := ns.send(ctx, formatTierChangeMessage(influencer, previousTier, currentTier)); err != nil {
			ns.logger.WithError(err).WithField("influencer_id", influencer.ID).Error("Failed to send tier change alert")
		}
	}
}

func (ns *NotificationService) send(ctx context.Context, message string) error {
	_, err := ns.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    ns.chatID,
		Text:      message,
		ParseMode: tgmodels.ParseModeMarkdown,
	})
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

func formatStreakMessage(influencer models.Influencer, prediction models.PredictionRecord, streak int) string {
	if streak > 0 {
		return fmt.Sprintf("🔥 *%s* is on a %d-call hot streak after a correct %s call on %s",
			influencer.Handle, streak, prediction.Direction, prediction.CoinSymbol)
	}
	return fmt.Sprintf("🧊 *%s* is on a %d-call cold streak after a missed %s call on %s",
		influencer.Handle, -streak, prediction.Direction, prediction.CoinSymbol)
}

func formatTierChangeMessage(influencer models.Influencer, previous, current models.Tier) string {
	return fmt.Sprintf("🏆 *%s* moved from %s to %s", influencer.Handle, previous, current)
}
