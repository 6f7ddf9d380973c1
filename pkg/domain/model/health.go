package model

// HealthStatus is the response of the webhook server health endpoint
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`

	// PendingPublishes counts publishes dispatched by webhooks and not finished yet
	PendingPublishes int64 `json:"pending_publishes"`
}
