package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/donaldgifford/fiscus-ingest/internal/events"
	"github.com/donaldgifford/fiscus-ingest/internal/metrics"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

const (
	colorRed    = 0xE74C3C // failed
	colorOrange = 0xE67E22 // cancelled
	colorGreen  = 0x2ECC71 // completed
	colorGrey   = 0x95A5A6
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// NotifyTask sends ev as a single Discord embed.
func (d *DiscordNotifier) NotifyTask(ctx context.Context, ev events.TaskEvent) error {
	start := time.Now()
	err := d.post(ctx, discordWebhookPayload{Embeds: []discordEmbed{buildEmbed(&ev)}})
	metrics.NotificationDuration.Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.NotificationsTotal.WithLabelValues(result).Inc()
	return err
}

func buildEmbed(ev *events.TaskEvent) discordEmbed {
	embed := discordEmbed{
		Title: fmt.Sprintf("Task %s: %s", ev.Status, ev.Name),
		Color: statusColor(ev.Status),
		Fields: []discordEmbedField{
			{Name: "Kind", Value: string(ev.Kind), Inline: true},
			{Name: "Progress", Value: fmt.Sprintf("%d/%d", ev.ItemsProcessed, ev.ItemsTotal), Inline: true},
			{Name: "Failed items", Value: fmt.Sprintf("%d", ev.ItemsFailed), Inline: true},
			{Name: "Task", Value: ev.TaskID, Inline: false},
		},
	}
	if ev.StoreID != nil {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name: "Store", Value: fmt.Sprintf("%d", *ev.StoreID), Inline: true,
		})
	}
	switch {
	case ev.Error != "":
		embed.Description = ev.Error
	case ev.Message != "":
		embed.Description = ev.Message
	}
	if !ev.At.IsZero() {
		embed.Timestamp = ev.At.UTC().Format(time.RFC3339)
	}
	return embed
}

func statusColor(s domain.TaskStatus) int {
	switch s {
	case domain.TaskFailed:
		return colorRed
	case domain.TaskCancelled:
		return colorOrange
	case domain.TaskCompleted:
		return colorGreen
	default:
		return colorGrey
	}
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
