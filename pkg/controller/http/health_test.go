package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"

	controller "github.com/m-mizutani/herald/pkg/controller/http"
	"github.com/m-mizutani/herald/pkg/domain/model"
)

func TestHealthEndpoint(t *testing.T) {
	server, err := controller.NewServer(
		context.Background(),
		&mockWebhookUseCase{},
		controller.WithAddr("localhost:0"),
		controller.WithWebhookSecret("test-secret"),
	)
	gt.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	gt.Value(t, w.Code).Equal(http.StatusOK)

	var status model.HealthStatus
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	gt.Value(t, status.Status).Equal("healthy")
	gt.Value(t, status.Service).Equal("herald")
	gt.Value(t, status.Version).NotEqual("")
	gt.Value(t, status.PendingPublishes).Equal(int64(0))
}

func TestNewServer_RequiresSecret(t *testing.T) {
	server, err := controller.NewServer(context.Background(), &mockWebhookUseCase{})
	gt.Error(t, err)
	gt.Value(t, server).Nil()
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	var inner bool
	handler := controller.LoggingMiddleware(ctx)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxlog.From(r.Context()).Info("inside handler")
		inner = true
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodPost, controller.WebhookPath, nil)
	req.Header.Set("X-GitHub-Delivery", "delivery-42")
	req.Header.Set("X-GitHub-Event", "release")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	gt.True(t, inner)
	gt.Value(t, w.Code).Equal(http.StatusAccepted)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	gt.A(t, lines).Length(2)

	var handlerLog, requestLog map[string]any
	gt.NoError(t, json.Unmarshal(lines[0], &handlerLog))
	gt.NoError(t, json.Unmarshal(lines[1], &requestLog))
	gt.Value(t, handlerLog["delivery_id"]).Equal("delivery-42")
	gt.Value(t, requestLog["msg"]).Equal("HTTP request")
	gt.Value(t, requestLog["github_event"]).Equal("release")
	gt.Value(t, requestLog["status"]).Equal(float64(http.StatusAccepted))
}
