// Package notify tells organizers about new RSVPs.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/oducru/runclub/internal/domain/model"
	"github.com/oducru/runclub/pkg/metrics"
)

// Notifier is told about every stored RSVP.
type Notifier interface {
	NotifyRSVP(ctx context.Context, r model.RSVP) error
}

// Nop drops every notification.
type Nop struct{}

// NotifyRSVP does nothing.
func (Nop) NotifyRSVP(context.Context, model.RSVP) error { return nil }

// Telegram posts RSVPs to one chat through the Bot API.
type Telegram struct {
	bot    *bot.Bot
	chatID int64
}

// Option applies a configuration option to the Telegram notifier.
type Option func(*[]bot.Option)

// WithServerURL points the bot at another Bot API host.
func WithServerURL(u string) Option {
	return func(opts *[]bot.Option) {
		if u != "" {
			*opts = append(*opts, bot.WithServerURL(u))
		}
	}
}

// NewTelegram creates a notifier posting to chatID. No request is made
// until the first RSVP.
func NewTelegram(token string, chatID int64, opts ...Option) (*Telegram, error) {
	botOpts := []bot.Option{bot.WithSkipGetMe()}
	for _, opt := range opts {
		opt(&botOpts)
	}
	b, err := bot.New(token, botOpts...)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

// NotifyRSVP sends a short summary of r.
func (t *Telegram) NotifyRSVP(ctx context.Context, r model.RSVP) error {
	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   Message(r),
	})
	if err != nil {
		metrics.RecordNotification(metrics.OutcomeError)
		return fmt.Errorf("telegram send: %w", err)
	}
	metrics.RecordNotification(metrics.OutcomeOK)
	return nil
}

// Message renders the notification text for r.
func Message(r model.RSVP) string {
	var b strings.Builder
	title := r.EventTitle
	if strings.TrimSpace(title) == "" {
		title = model.DefaultRSVPRef
	}
	fmt.Fprintf(&b, "New RSVP for %s\n", title)
	fmt.Fprintf(&b, "%s <%s>", r.Name, r.Email)
	if r.Pace != "" {
		fmt.Fprintf(&b, "\nPace: %s", r.Pace)
	}
	if r.Experience != "" {
		fmt.Fprintf(&b, "\nExperience: %s", r.Experience)
	}
	return b.String()
}
