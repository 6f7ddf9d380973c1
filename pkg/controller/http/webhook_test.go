package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"

	controller "github.com/m-mizutani/herald/pkg/controller/http"
	"github.com/m-mizutani/herald/pkg/domain/model"
)

type mockWebhookUseCase struct {
	mu     sync.Mutex
	events []*model.WebhookEvent
	err    error
}

func (m *mockWebhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.err
}

func (m *mockWebhookUseCase) received() []*model.WebhookEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events
}

// generateSignature generates HMAC-SHA256 signature for testing
func generateSignature(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func newWebhookRequest(t *testing.T, eventType string, payload []byte, signature string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, controller.WebhookPath, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-GitHub-Delivery", "test-delivery")
	req.Header.Set("X-Hub-Signature-256", signature)
	return req
}

var releasePayload = map[string]any{
	"action": "published",
	"release": map[string]any{
		"id":         1,
		"tag_name":   "v1.0.0",
		"upload_url": "https://uploads.github.com/repos/test/repo/releases/1/assets{?name,label}",
	},
	"repository": map[string]any{
		"name":      "repo",
		"full_name": "test/repo",
		"owner":     map[string]any{"login": "test"},
	},
	"sender": map[string]any{
		"login": "testuser",
	},
}

func TestWebhookHandler_SignatureVerification(t *testing.T) {
	secret := "test-secret"
	payload, err := json.Marshal(releasePayload)
	gt.NoError(t, err)

	tests := []struct {
		name           string
		signature      string
		wantStatusCode int
	}{
		{
			name:           "Valid signature",
			signature:      generateSignature(secret, payload),
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "Signature with wrong secret",
			signature:      generateSignature("other-secret", payload),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "Invalid signature",
			signature:      "sha256=invalid",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "Missing signature",
			signature:      "",
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockWebhookUseCase{}
			handler := controller.NewWebhookHandler(secret, uc)

			w := httptest.NewRecorder()
			handler.Handle(w, newWebhookRequest(t, "release", payload, tt.signature))

			gt.Value(t, w.Code).Equal(tt.wantStatusCode)
			if tt.wantStatusCode != http.StatusOK {
				gt.A(t, uc.events).Length(0)
			}
		})
	}
}

func TestWebhookHandler_EventParsing(t *testing.T) {
	secret := "test-secret"

	t.Run("release event", func(t *testing.T) {
		uc := &mockWebhookUseCase{}
		handler := controller.NewWebhookHandler(secret, uc)
		payload, err := json.Marshal(releasePayload)
		gt.NoError(t, err)

		w := httptest.NewRecorder()
		handler.Handle(w, newWebhookRequest(t, "release", payload, generateSignature(secret, payload)))

		gt.Value(t, w.Code).Equal(http.StatusOK)
		var response map[string]string
		gt.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		gt.Value(t, response["status"]).Equal("success")

		gt.A(t, uc.events).Length(1)
		event := uc.events[0]
		gt.Value(t, event.ID).Equal("test-delivery")
		gt.Value(t, event.Type).Equal(model.EventTypeRelease)
		gt.Value(t, event.Action).Equal("published")
		gt.Value(t, event.Repository).Equal("test/repo")
		gt.Value(t, event.Sender).Equal("testuser")
		gt.True(t, event.IsSupportedEvent())
		gt.Value(t, event.RawPayload).Equal(payload)
	})

	t.Run("ping event", func(t *testing.T) {
		uc := &mockWebhookUseCase{}
		handler := controller.NewWebhookHandler(secret, uc)
		payload := []byte(`{"zen":"Design for failure.","hook_id":1}`)

		w := httptest.NewRecorder()
		handler.Handle(w, newWebhookRequest(t, "ping", payload, generateSignature(secret, payload)))

		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.A(t, uc.events).Length(1)
		gt.Value(t, uc.events[0].Type).Equal(model.EventTypePing)
		gt.False(t, uc.events[0].IsSupportedEvent())
	})

	t.Run("broken payload", func(t *testing.T) {
		uc := &mockWebhookUseCase{}
		handler := controller.NewWebhookHandler(secret, uc)
		payload := []byte(`{not json`)

		w := httptest.NewRecorder()
		handler.Handle(w, newWebhookRequest(t, "release", payload, generateSignature(secret, payload)))

		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
		gt.A(t, uc.events).Length(0)
	})

	t.Run("oversized payload", func(t *testing.T) {
		uc := &mockWebhookUseCase{}
		handler := controller.NewWebhookHandler(secret, uc)
		payload := bytes.Repeat([]byte(" "), 25<<20+1)

		w := httptest.NewRecorder()
		handler.Handle(w, newWebhookRequest(t, "release", payload, generateSignature(secret, payload)))

		gt.Value(t, w.Code).Equal(http.StatusRequestEntityTooLarge)
		gt.String(t, w.Body.String()).Contains("payload too large")
		gt.A(t, uc.received()).Length(0)
	})

	t.Run("payload at the size limit", func(t *testing.T) {
		uc := &mockWebhookUseCase{}
		handler := controller.NewWebhookHandler(secret, uc)
		payload, err := json.Marshal(releasePayload)
		gt.NoError(t, err)
		// JSON allows trailing whitespace up to the limit
		payload = append(payload, bytes.Repeat([]byte(" "), 25<<20-len(payload))...)

		w := httptest.NewRecorder()
		handler.Handle(w, newWebhookRequest(t, "release", payload, generateSignature(secret, payload)))

		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.A(t, uc.received()).Length(1)
	})

	t.Run("use case error", func(t *testing.T) {
		uc := &mockWebhookUseCase{err: errors.New("broken release event")}
		handler := controller.NewWebhookHandler(secret, uc)
		payload, err := json.Marshal(releasePayload)
		gt.NoError(t, err)

		w := httptest.NewRecorder()
		handler.Handle(w, newWebhookRequest(t, "release", payload, generateSignature(secret, payload)))

		gt.Value(t, w.Code).Equal(http.StatusInternalServerError)
		gt.String(t, w.Body.String()).Contains("broken release event")
	})
}

func TestWebhookHandler_Integration(t *testing.T) {
	secret := "integration-test-secret"
	uc := &mockWebhookUseCase{}

	server, err := controller.NewServer(
		context.Background(),
		uc,
		controller.WithAddr("localhost:0"),
		controller.WithWebhookSecret(secret),
	)
	gt.NoError(t, err)

	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	payload, err := json.Marshal(releasePayload)
	gt.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.URL+controller.WebhookPath, bytes.NewReader(payload))
	gt.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "release")
	req.Header.Set("X-GitHub-Delivery", "integration-test")
	req.Header.Set("X-Hub-Signature-256", generateSignature(secret, payload))

	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err)
	defer func() {
		_ = resp.Body.Close() // Error ignored in test
	}()

	gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
	events := uc.received()
	gt.A(t, events).Length(1)
	gt.Value(t, events[0].ID).Equal("integration-test")
}
