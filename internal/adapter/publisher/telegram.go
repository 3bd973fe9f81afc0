package publisher

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/farhanadit/dbkeeper/internal/config"
	"github.com/farhanadit/dbkeeper/internal/domain"
)

// Telegram bots cap document uploads at 50 MB.
const telegramMaxFileMB = 50

// Telegram sends each artifact to a chat, either as the file itself or as a
// text notification when the file is too big or send_file is off.
type Telegram struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	sendFile bool
}

func NewTelegram(cfg *config.TelegramConfig) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat_id %q: %w", cfg.ChatID, err)
	}

	return &Telegram{
		bot:      bot,
		chatID:   chatID,
		sendFile: cfg.SendFile,
	}, nil
}

func (t *Telegram) Publish(ctx context.Context, artifact domain.Artifact) error {
	sizeMB := float64(artifact.Size) / (1024 * 1024)

	if t.sendFile && sizeMB < telegramMaxFileMB {
		doc := tgbotapi.NewDocument(t.chatID, tgbotapi.FilePath(artifact.Path))
		doc.Caption = fmt.Sprintf("Backup: %s (%.2f MB)", artifact.Filename, sizeMB)

		if _, err := t.bot.Send(doc); err != nil {
			return fmt.Errorf("failed to send telegram file: %w", err)
		}
		return nil
	}

	message := fmt.Sprintf(
		"Backup created\n\nFile: %s\nSize: %.2f MB\nTime: %s",
		artifact.Filename,
		sizeMB,
		artifact.CreatedAt.Format("2006-01-02 15:04:05"),
	)

	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, message)); err != nil {
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}

	return nil
}
