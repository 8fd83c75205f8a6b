// Package classifier is the outbound adapter for the external message
// analysis service. Classification is best effort: a single bounded attempt
// per message, and any failure collapses into ErrUnavailable so callers can
// skip alerting without failing the send that already completed.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"guardian-chat/internal/observability"
)

// ErrUnavailable reports that no verdict could be obtained. Distinct from a
// negative verdict.
var ErrUnavailable = errors.New("classifier unavailable")

// Verdict is the classifier's output for one message.
type Verdict struct {
	IsBullying      bool    `json:"is_bullying"`
	ConfidenceScore float64 `json:"confidence_score"`
	AlertTriggered  bool    `json:"alert_triggered"`
}

// Classifier submits message text for analysis.
type Classifier interface {
	Classify(ctx context.Context, conversationKey, text string) (Verdict, error)
}

// HTTPClient talks to the analysis endpoint over HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient constructs a client with the given per-call timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

// Classify submits one message and returns the verdict. Timeouts, transport
// errors, non-200 responses and malformed bodies all surface as
// ErrUnavailable; there are no retries.
func (c *HTTPClient) Classify(ctx context.Context, conversationKey, text string) (Verdict, error) {
	ctx, span := otel.Tracer("guardian-chat/classifier").Start(ctx, "classifier.analyze")
	defer span.End()
	span.SetAttributes(attribute.String("conversation.key", conversationKey))

	start := time.Now()
	verdict, err := c.post(ctx, conversationKey, text)
	outcome := "ok"
	if err != nil {
		outcome = "unavailable"
	}
	observability.ObserveClassifierCall(outcome, time.Since(start))
	return verdict, err
}

func (c *HTTPClient) post(ctx context.Context, conversationKey, text string) (Verdict, error) {
	body, err := json.Marshal(analyzeRequest{ConversationID: conversationKey, Text: text})
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-conversation", bytes.NewReader(body))
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Verdict{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var verdict Verdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return verdict, nil
}
