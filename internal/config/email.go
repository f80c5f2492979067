package config

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/resend/resend-go/v2"
	"go.uber.org/fx"
)

type ResendConfig struct {
	APIKey string
	From   string
}

func NewResendConfig() *ResendConfig {
	apiKey := os.Getenv("RESEND_API_KEY")
	fromEmail := os.Getenv("FROM_EMAIL")
	if apiKey == "" || fromEmail == "" {
		log.Fatal("Missing Environment variables")
	}
	return &ResendConfig{
		APIKey: apiKey,
		From:   fromEmail}
}

type EmailService struct {
	Config *ResendConfig
	client *resend.Client
}

func NewEmailService(lc fx.Lifecycle, config *ResendConfig) *EmailService {
	service := &EmailService{Config: config, client: resend.NewClient(config.APIKey)}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Println("Email Service initialized")
			return nil
		},
	})
	return service
}

func (e *EmailService) SendEmail(to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    e.Config.From,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}

	sent, err := e.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("Failed to send Email: %w", err)
	}

	log.Println("Email sent successfully to", to, "id:", sent.Id)
	return nil
}
