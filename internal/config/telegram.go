package config

import (
	"context"
	"errors"
	"log"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
)

// TelegramBot wraps the bot API used as the push delivery channel. When no
// token is configured the bot stays nil and every push reports failure.
type TelegramBot struct {
	API *tgbotapi.BotAPI
}

func NewTelegramBot(lc fx.Lifecycle) *TelegramBot {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, push delivery disabled")
		return &TelegramBot{}
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Println("Telegram bot authorized as", api.Self.UserName)
			return nil
		},
	})
	return &TelegramBot{API: api}
}

// Push sends a plain text message to the given chat.
func (b *TelegramBot) Push(chatID int64, text string) error {
	if b.API == nil {
		return errors.New("telegram bot not configured")
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.API.Send(msg)
	return err
}
