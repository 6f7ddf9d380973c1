package model

import "time"

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypeRelease WebhookEventType = "release"
	EventTypePing    WebhookEventType = "ping"
	EventTypeUnknown WebhookEventType = "unknown"
)

// ReleaseActionPublished is the only release action that triggers a publish
const ReleaseActionPublished = "published"

// WebhookEvent represents a webhook event received from GitHub
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	Action     string
	Repository string
	Sender     string
	ReceivedAt time.Time
	RawPayload []byte
}

// IsSupportedEvent checks if the event should trigger a publish
func (e *WebhookEvent) IsSupportedEvent() bool {
	return e.Type == EventTypeRelease && e.Action == ReleaseActionPublished
}
