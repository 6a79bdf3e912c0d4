// Package notify pushes delivery lifecycle notifications to the platform's
// notification service over HTTP. Delivery of a notification is best-effort;
// callers log failures and move on.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"service-delivery/internal/domain"
)

// Notification is one push message for a platform user.
type Notification struct {
	RecipientID string `json:"recipient_id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Ref         string `json:"ref,omitempty"`
}

// StatusError is a non-2xx answer from the notification service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("notify: unexpected status %d", e.Code)
}

// Retryable reports whether a retry could succeed.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// HTTPGateway posts notifications to the notification service.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGateway creates an HTTP notify gateway. An empty base URL returns
// nil, which disables notifications.
func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Push sends one notification.
func (g *HTTPGateway) Push(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notify: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// AssignmentNotifier renders assignment lifecycle events as notifications
// addressed to the bound partner. The notification service resolves partner
// identifiers to devices.
type AssignmentNotifier struct {
	pusher pusher
}

// NewAssignmentNotifier creates an AssignmentNotifier. A nil pusher returns
// nil, which callers treat as notifications disabled.
func NewAssignmentNotifier(p pusher) *AssignmentNotifier {
	if p == nil {
		return nil
	}
	return &AssignmentNotifier{pusher: p}
}

// AssignmentCreated announces a fresh assignment to its partner.
func (n *AssignmentNotifier) AssignmentCreated(ctx context.Context, a domain.Assignment) error {
	return n.pusher.Push(ctx, Notification{
		RecipientID: a.PartnerID.String(),
		Kind:        "assignment_created",
		Title:       "New delivery assignment",
		Body:        fmt.Sprintf("You have been assigned order %s for %s", a.OrderID, a.Fee),
		Ref:         a.ID.String(),
	})
}

// AssignmentStatusChanged announces a committed transition.
func (n *AssignmentNotifier) AssignmentStatusChanged(ctx context.Context, a domain.Assignment, from domain.AssignmentStatus) error {
	return n.pusher.Push(ctx, Notification{
		RecipientID: a.PartnerID.String(),
		Kind:        "assignment_status_changed",
		Title:       "Delivery status updated",
		Body:        fmt.Sprintf("Assignment for order %s moved from %s to %s", a.OrderID, from, a.Status),
		Ref:         a.ID.String(),
	})
}
