package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lessonbook/pkg/logger"
	"lessonbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockLessonService struct {
	createFunc func(ctx context.Context, lesson *model.Lesson) error
}

func (m *mockLessonService) Create(ctx context.Context, lesson *model.Lesson) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, lesson)
	}
	return nil
}

func (m *mockLessonService) GetByID(ctx context.Context, id string) (*model.Lesson, error) {
	return nil, nil
}

func (m *mockLessonService) List(ctx context.Context, filter *model.LessonFilter, limit int, offset int64) ([]*model.Lesson, int64, error) {
	return nil, 0, nil
}

func (m *mockLessonService) Update(ctx context.Context, id string, updates *model.LessonUpdate) (*model.Lesson, error) {
	return nil, nil
}

func (m *mockLessonService) Delete(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (m *mockLessonService) FindConflicts(ctx context.Context, classroom string, start time.Time, durationMinutes int, excludeID string) ([]*model.Lesson, error) {
	return nil, nil
}

func newTestHandler(svc *mockLessonService) *LessonHandler {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return NewLessonHandler(svc, log)
}

func TestCreate_DropsCallerSuppliedIDAndCreatedAt(t *testing.T) {
	var received *model.Lesson
	svc := &mockLessonService{
		createFunc: func(ctx context.Context, lesson *model.Lesson) error {
			snapshot := *lesson
			received = &snapshot
			lesson.ID = "650000000000000000000001"
			return nil
		},
	}
	h := newTestHandler(svc)

	// A well-formed hex id would pass struct validation and end up
	// stored as a string _id, which the collection schema rejects.
	body := `{
		"id": "65ffffffffffffffffffffff",
		"subject": "Algebra",
		"teacher": "Ms. Rivera",
		"classroom": "Room A",
		"scheduled_time": "2026-09-14T09:00:00Z",
		"duration_minutes": 60,
		"created_at": "2020-01-01T00:00:00Z"
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/lessons", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if received == nil {
		t.Fatal("service was never called")
	}
	if received.ID != "" {
		t.Errorf("caller-supplied id must be dropped, got %q", received.ID)
	}
	if !received.CreatedAt.IsZero() {
		t.Errorf("caller-supplied created_at must be dropped, got %v", received.CreatedAt)
	}

	var envelope struct {
		Data model.Lesson `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if envelope.Data.ID != "650000000000000000000001" {
		t.Errorf("response must carry the assigned id, got %q", envelope.Data.ID)
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	h := newTestHandler(&mockLessonService{
		createFunc: func(ctx context.Context, lesson *model.Lesson) error {
			t.Fatal("service must not be called for a malformed body")
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/lessons", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Create(rec, req, httprouter.Params{})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}
