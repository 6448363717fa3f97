package notify

import (
	"context"
	"fmt"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/rentalsmoke/packages/http"
)

const slackTimeout = 10 * time.Second

// SlackNotifier sends notifications to Slack via an incoming webhook
type SlackNotifier struct {
	webhookURL string
	channel    string
	username   string
	iconEmoji  string
	client     *http.Client
}

type SlackOption func(*SlackNotifier)

func WithSlackChannel(channel string) SlackOption {
	return func(s *SlackNotifier) {
		s.channel = channel
	}
}

func WithSlackUsername(username string) SlackOption {
	return func(s *SlackNotifier) {
		s.username = username
	}
}

func WithSlackIconEmoji(emoji string) SlackOption {
	return func(s *SlackNotifier) {
		s.iconEmoji = emoji
	}
}

// WithSlackClient replaces the HTTP client used to post messages
func WithSlackClient(client *http.Client) SlackOption {
	return func(s *SlackNotifier) {
		s.client = client
	}
}

func NewSlackNotifier(webhookURL string, opts ...SlackOption) *SlackNotifier {
	s := &SlackNotifier{
		webhookURL: webhookURL,
		username:   "rentalsmoke",
		iconEmoji:  ":rotating_light:",
		client:     http.NewClient(http.WithTimeout(slackTimeout)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *SlackNotifier) Name() string {
	return "slack"
}

type slackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username,omitempty"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text,omitempty"`
	Fields []slackField `json:"fields,omitempty"`
	Footer string       `json:"footer,omitempty"`
	TS     int64        `json:"ts,omitempty"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

func (s *SlackNotifier) message(summary *RunSummary) slackMessage {
	color := "good"
	title := "Smoke suite passed"
	emoji := ":white_check_mark:"

	if !summary.Success() {
		color = "danger"
		title = fmt.Sprintf("%d of %d smoke step(s) failed", summary.FailedTests, summary.TotalTests)
		emoji = ":x:"
	}

	fields := []slackField{
		{Title: "Target", Value: summary.BaseURL, Short: false},
		{Title: "Total Tests", Value: fmt.Sprintf("%d", summary.TotalTests), Short: true},
		{Title: "Passed", Value: fmt.Sprintf("%d", summary.PassedTests), Short: true},
		{Title: "Failed", Value: fmt.Sprintf("%d", summary.FailedTests), Short: true},
		{Title: "Duration", Value: summary.Duration.Round(time.Millisecond).String(), Short: true},
	}

	var text strings.Builder
	if len(summary.Failed) > 0 {
		text.WriteString("*Failed steps:*\n")
		for _, ft := range summary.Failed {
			fmt.Fprintf(&text, "• `TEST %d: %s`\n", ft.Number, ft.Name)
			if ft.Details != "" {
				fmt.Fprintf(&text, "  %s\n", ft.Details)
			}
		}
	}

	return slackMessage{
		Channel:   s.channel,
		Username:  s.username,
		IconEmoji: s.iconEmoji,
		Attachments: []slackAttachment{{
			Color:  color,
			Title:  fmt.Sprintf("%s %s", emoji, title),
			Text:   text.String(),
			Fields: fields,
			Footer: "rentalsmoke " + summary.RunID,
			TS:     time.Now().Unix(),
		}},
	}
}

// Notify posts the summary to the webhook
func (s *SlackNotifier) Notify(ctx context.Context, summary *RunSummary) error {
	req, err := http.NewRequest(nethttp.MethodPost, s.webhookURL).SetJSON(s.message(summary))
	if err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to send Slack notification: %w", err)
	}

	if resp.StatusCode != nethttp.StatusOK {
		return fmt.Errorf("slack API returned status %d: %s", resp.StatusCode, resp.CompactBody())
	}
	return nil
}
