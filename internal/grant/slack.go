package grant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"bobadash/internal/domain"
	"bobadash/pkg/platform/sentinel"
)

const notifyTimeout = 8 * time.Second

// SlackNotifier posts grant requests to a Slack incoming webhook as a Block
// Kit message. An empty webhook URL means notifications are off; callers
// check Configured before invoking Notify.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewSlackNotifier(webhookURL string, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: notifyTimeout},
		logger:     logger,
	}
}

// Configured reports whether a webhook URL is set.
func (n *SlackNotifier) Configured() bool {
	return n.webhookURL != ""
}

type slackText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackMessage struct {
	Blocks []slackBlock `json:"blocks"`
}

// Notify posts the grant request. A single attempt with the client timeout;
// the caller decides what a failure means.
func (n *SlackNotifier) Notify(ctx context.Context, req domain.GrantRequest) error {
	payload := buildMessage(req)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("post slack webhook: %w: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("slack webhook returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	n.logger.InfoContext(ctx, "grant notification delivered",
		slog.String("event_code", req.EventCode),
		slog.Int("amount", req.Amount),
	)
	return nil
}

func buildMessage(req domain.GrantRequest) slackMessage {
	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "🧋 New Boba Grant Request", Emoji: true},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Event Code:*\n%s", req.EventCode)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Total Amount:*\n$%d", req.Amount)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Organizer:*\n%s", req.OrganizerName)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Email:*\n%s", req.OrganizerEmail)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Approved Submissions:*\n%d × $%d", req.ApprovedCount, domain.GrantPerApproval)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Payment Method:*\n%s", req.PaymentMethod)},
			},
		},
	}
	if req.AdditionalInfo != "" {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: fmt.Sprintf("*Additional Info:*\n%s", req.AdditionalInfo)},
		})
	}
	blocks = append(blocks, slackBlock{Type: "divider"})
	return slackMessage{Blocks: blocks}
}
