package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/herald/pkg/domain/model"
	slackinfra "github.com/m-mizutani/herald/pkg/infra/slack"
)

func newResult() *model.PublishResult {
	return &model.PublishResult{
		Release: &model.ReleaseEvent{
			TagName:    "v1.1.0",
			Repository: model.Repository{Owner: "octo", Name: "demo"},
		},
		Previous: &model.Release{TagName: "v1.0.0"},
		Artifacts: []*model.Artifact{
			{Name: "app-linux.tar.gz"},
			{Name: "app-windows.zip", New: true},
		},
		Commits: []*model.Commit{{Message: "a"}, {Message: "b"}},
	}
}

func TestNotifier_Notify(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.Method).Equal(http.MethodPost)
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := slackinfra.NewNotifier(server.URL)
	gt.NoError(t, notifier.Notify(context.Background(), newResult()))

	text, ok := got["text"].(string)
	gt.True(t, ok)
	gt.String(t, text).Contains("Published *octo/demo* `v1.1.0`: 2 artifacts (1 new)")
	gt.String(t, text).Contains("`app-windows.zip`")
	gt.String(t, text).NotContains("`app-linux.tar.gz`")
	gt.String(t, text).Contains("2 commits since `v1.0.0`")
	gt.Value(t, got["blocks"]).NotNil()
}

func TestNotifier_Notify_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	notifier := slackinfra.NewNotifier(server.URL)
	err := notifier.Notify(context.Background(), newResult())
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("failed to post Slack message")
}
