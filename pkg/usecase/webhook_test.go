package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/usecase"
)

// MockPublishUseCase is a mock implementation of PublishUseCase
type MockPublishUseCase struct {
	publishFunc func(ctx context.Context, release *model.ReleaseEvent, dir string) (*model.PublishResult, error)
	calls       []PublishCall
}

type PublishCall struct {
	Release *model.ReleaseEvent
	Dir     string
}

func (m *MockPublishUseCase) Publish(ctx context.Context, release *model.ReleaseEvent, dir string) (*model.PublishResult, error) {
	m.calls = append(m.calls, PublishCall{Release: release, Dir: dir})
	if m.publishFunc != nil {
		return m.publishFunc(ctx, release, dir)
	}
	return &model.PublishResult{Release: release}, nil
}

// syncDispatch runs the handler in the caller goroutine
func syncDispatch(errs *[]error) func(ctx context.Context, handler func(ctx context.Context) error) {
	return func(ctx context.Context, handler func(ctx context.Context) error) {
		if err := handler(ctx); err != nil {
			*errs = append(*errs, err)
		}
	}
}

func TestWebhookUseCase_ProcessEvent(t *testing.T) {
	tests := []struct {
		name        string
		event       *model.WebhookEvent
		wantErr     bool
		wantPublish bool
	}{
		{
			name: "Release published event triggers publish",
			event: &model.WebhookEvent{
				ID:         "test-delivery-1",
				Type:       model.EventTypeRelease,
				Action:     "published",
				Repository: "octo/demo",
				Sender:     "octocat",
				ReceivedAt: time.Now(),
				RawPayload: []byte(releasePayload),
			},
			wantPublish: true,
		},
		{
			name: "Release created event is ignored",
			event: &model.WebhookEvent{
				ID:         "test-delivery-2",
				Type:       model.EventTypeRelease,
				Action:     "created",
				Repository: "octo/demo",
				ReceivedAt: time.Now(),
				RawPayload: []byte(releasePayload),
			},
		},
		{
			name: "Ping event is ignored",
			event: &model.WebhookEvent{
				ID:         "test-delivery-3",
				Type:       model.EventTypePing,
				ReceivedAt: time.Now(),
				RawPayload: []byte(`{"zen":"Keep it logically awesome."}`),
			},
		},
		{
			name: "Broken release payload is an error",
			event: &model.WebhookEvent{
				ID:         "test-delivery-4",
				Type:       model.EventTypeRelease,
				Action:     "published",
				ReceivedAt: time.Now(),
				RawPayload: []byte(`{}`),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errs []error
			publisher := &MockPublishUseCase{}
			uc := usecase.NewWebhook(publisher, "/artifacts", usecase.WithDispatcher(syncDispatch(&errs)))

			err := uc.ProcessEvent(context.Background(), tt.event)
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}

			if tt.wantPublish {
				gt.A(t, publisher.calls).Length(1)
				gt.Value(t, publisher.calls[0].Dir).Equal("/artifacts")
				gt.Value(t, publisher.calls[0].Release.ReleaseID).Equal(int64(42))
				gt.Value(t, publisher.calls[0].Release.Head()).Equal("v1.1.0")
			} else {
				gt.A(t, publisher.calls).Length(0)
			}
			gt.A(t, errs).Length(0)
		})
	}
}

func TestWebhookUseCase_PublishErrorIsNotReturned(t *testing.T) {
	var errs []error
	publisher := &MockPublishUseCase{
		publishFunc: func(ctx context.Context, release *model.ReleaseEvent, dir string) (*model.PublishResult, error) {
			return nil, errors.New("upload failed")
		},
	}
	uc := usecase.NewWebhook(publisher, "/artifacts", usecase.WithDispatcher(syncDispatch(&errs)))

	err := uc.ProcessEvent(context.Background(), &model.WebhookEvent{
		Type:       model.EventTypeRelease,
		Action:     "published",
		RawPayload: []byte(releasePayload),
	})
	gt.NoError(t, err)
	gt.A(t, errs).Length(1)
	gt.String(t, errs[0].Error()).Contains("upload failed")
}
