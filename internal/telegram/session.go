// File path: internal/telegram/session.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
)

// PromptFunc asks the operator for a value during interactive login.
type PromptFunc func(label string) (string, error)

// GenerateSession performs an interactive phone login and persists the
// resulting session to cfg.SessionFile. The prompt is used for the phone
// number (when not configured) and the login code Telegram sends.
func GenerateSession(ctx context.Context, cfg Config, out io.Writer, prompt PromptFunc) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.applyDefaults()
	if strings.TrimSpace(cfg.SessionFile) == "" {
		return errors.New("session file path required")
	}
	if strings.TrimSpace(cfg.Phone) == "" {
		phone, err := prompt("phone number (with country code, e.g. +919876543210)")
		if err != nil {
			return err
		}
		cfg.Phone = strings.TrimSpace(phone)
	}
	if cfg.Phone == "" {
		return errors.New("phone number required")
	}

	client := telegram.NewClient(cfg.APIID, cfg.APIHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: cfg.SessionFile},
	})
	return client.Run(ctx, func(ctx context.Context) error {
		code := auth.CodeAuthenticatorFunc(func(ctx context.Context, _ *tg.AuthSentCode) (string, error) {
			return prompt("login code")
		})
		flow := auth.NewFlow(auth.Constant(cfg.Phone, cfg.Password, code), auth.SendCodeOptions{})
		if err := client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		self, err := client.Self(ctx)
		if err != nil {
			return fmt.Errorf("load self: %w", err)
		}
		fmt.Fprintf(out, "Logged in as %s (@%s)\n", self.FirstName, self.Username)
		fmt.Fprintf(out, "Session saved to %s\n", cfg.SessionFile)
		fmt.Fprintln(out, "Set TELEGRAM_SESSION_FILE to this path. Never share the session file.")
		return nil
	})
}

// TestSession connects with the stored session and prints the logged-in
// user, mirroring what a lookup deployment will see at startup.
func TestSession(ctx context.Context, cfg Config, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.applyDefaults()
	if !cfg.hasSession() {
		return ErrNotAuthorized
	}
	storage, err := sessionStorage(cfg)
	if err != nil {
		return err
	}
	client := telegram.NewClient(cfg.APIID, cfg.APIHash, telegram.Options{
		SessionStorage: storage,
	})
	return client.Run(ctx, func(ctx context.Context) error {
		status, err := client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("auth status: %w", err)
		}
		if !status.Authorized {
			return ErrNotAuthorized
		}
		self, err := client.Self(ctx)
		if err != nil {
			return fmt.Errorf("load self: %w", err)
		}
		fmt.Fprintln(out, "Session is valid")
		fmt.Fprintf(out, "User: %s (@%s)\n", self.FirstName, self.Username)
		fmt.Fprintf(out, "Phone: %s\n", self.Phone)
		return nil
	})
}
