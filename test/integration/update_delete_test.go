package integration

import (
	"net/http"
	"testing"
	"time"

	"lessonbook/pkg/model"
	"lessonbook/test/integration/testutil"
)

type lessonEnvelope struct {
	Data model.Lesson `json:"data"`
}

func createLesson(t *testing.T, client *testutil.Client, lesson model.Lesson) model.Lesson {
	t.Helper()

	resp, err := client.Lessons.Create(lesson)
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %s", http.StatusCreated, resp.ToString())
	}

	created, err := client.Lessons.DecodeLesson(resp)
	if err != nil {
		t.Fatalf("failed to decode created lesson: %v", err)
	}
	return *created
}

func TestUpdate_SubjectOnly(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	created := createLesson(t, client, testutil.ValidLesson())

	resp := client.PATCH(t, "/api/v1/lessons/id/"+created.ID, map[string]any{
		"subject": "Geometry",
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var envelope lessonEnvelope
	if err := resp.DecodeJSON(&envelope); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	updated := envelope.Data

	if updated.Subject != "Geometry" {
		t.Errorf("expected subject Geometry, got %q", updated.Subject)
	}
	if updated.ID != created.ID {
		t.Error("id must be immutable")
	}
	if !updated.ScheduledTime.Equal(created.ScheduledTime) {
		t.Error("untouched scheduled_time must be preserved")
	}
	if updated.DurationMinutes != created.DurationMinutes {
		t.Error("untouched duration must be preserved")
	}
}

func TestUpdate_MissingLesson(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := client.PATCH(t, "/api/v1/lessons/id/650000000000000000000000", map[string]any{
		"subject": "Geometry",
	})
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestUpdate_IntoConflictLeavesRecordUnchanged(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)

	first := createLesson(t, client, testutil.NewLessonBuilder().
		WithScheduledTime(start).WithDuration(60).Build())
	second := createLesson(t, client, testutil.NewLessonBuilder().
		WithTeacher("Mr. Chen").
		WithScheduledTime(start.Add(2 * time.Hour)).WithDuration(60).Build())

	// Move the second lesson onto the first one.
	resp := client.PATCH(t, "/api/v1/lessons/id/"+second.ID, map[string]any{
		"scheduled_time": start.Add(30 * time.Minute).Format(time.RFC3339),
	})
	testutil.AssertStatusCode(t, resp, http.StatusConflict)
	testutil.AssertContains(t, resp, first.Classroom)

	// Stored record is untouched.
	resp = client.GET(t, "/api/v1/lessons/id/"+second.ID)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var envelope lessonEnvelope
	if err := resp.DecodeJSON(&envelope); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !envelope.Data.ScheduledTime.Equal(second.ScheduledTime) {
		t.Errorf("rejected update must not modify the record: got %v, want %v",
			envelope.Data.ScheduledTime, second.ScheduledTime)
	}
}

func TestUpdate_MoveOwnSlotWithinItself(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	created := createLesson(t, client, testutil.NewLessonBuilder().
		WithScheduledTime(start).WithDuration(120).Build())

	// Shrinking inside its own interval conflicts only with itself, which
	// the re-check must exclude.
	resp := client.PATCH(t, "/api/v1/lessons/id/"+created.ID, map[string]any{
		"scheduled_time":   start.Add(30 * time.Minute).Format(time.RFC3339),
		"duration_minutes": 60,
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}

func TestDelete_IsIdempotent(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	created := createLesson(t, client, testutil.ValidLesson())

	deleteLesson := func() bool {
		resp, err := client.Lessons.Delete(created.ID)
		if err != nil {
			t.Fatalf("delete request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %s", http.StatusOK, resp.ToString())
		}
		deleted, err := client.Lessons.DecodeDeleted(resp)
		if err != nil {
			t.Fatalf("failed to decode delete response: %v", err)
		}
		return deleted
	}

	// First delete removes the record.
	if !deleteLesson() {
		t.Error("expected deleted=true on first delete")
	}

	// Second delete of the same id is not an error.
	if deleteLesson() {
		t.Error("expected deleted=false on second delete")
	}

	count := mongo.CountDocuments(t, testutil.LessonsCollection)
	if count != 0 {
		t.Errorf("expected 0 documents in DB, got %d", count)
	}
}
