package integration

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"lessonbook/pkg/model"
	"lessonbook/test/integration/testutil"
)

// queryConflicts runs a check-before-submit query through the typed
// client and decodes the reported conflicts.
func queryConflicts(t *testing.T, client *testutil.Client, classroom string, start time.Time, durationMinutes int, excludeID string) []model.Lesson {
	t.Helper()

	resp, err := client.Lessons.Conflicts(classroom, start, durationMinutes, excludeID)
	if err != nil {
		t.Fatalf("conflicts request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %s", http.StatusOK, resp.ToString())
	}

	var envelope struct {
		Data []model.Lesson `json:"data"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		t.Fatalf("failed to decode conflicts response: %v", err)
	}
	return envelope.Data
}

func TestConflicts_ProbeBeforeSubmit(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	existing := createLesson(t, client, testutil.NewLessonBuilder().
		WithScheduledTime(start).WithDuration(60).Build())

	t.Run("overlapping query reports the lesson", func(t *testing.T) {
		conflicts := queryConflicts(t, client, existing.Classroom, start.Add(30*time.Minute), 60, "")
		if len(conflicts) != 1 || conflicts[0].ID != existing.ID {
			t.Errorf("expected the existing lesson as the only conflict, got %v", conflicts)
		}
	})

	t.Run("touching query is clear", func(t *testing.T) {
		conflicts := queryConflicts(t, client, existing.Classroom, start.Add(60*time.Minute), 60, "")
		if len(conflicts) != 0 {
			t.Errorf("expected no conflicts, got %v", conflicts)
		}
	})

	t.Run("other classroom is clear", func(t *testing.T) {
		conflicts := queryConflicts(t, client, "Room Z", start, 60, "")
		if len(conflicts) != 0 {
			t.Errorf("expected no conflicts, got %v", conflicts)
		}
	})

	t.Run("excluded id never reported", func(t *testing.T) {
		conflicts := queryConflicts(t, client, existing.Classroom, start, 60, existing.ID)
		if len(conflicts) != 0 {
			t.Errorf("expected excluded lesson to be dropped, got %v", conflicts)
		}
	})
}

func TestConflicts_InvalidParameters(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)

	t.Run("missing classroom", func(t *testing.T) {
		resp := client.GET(t, "/api/v1/lessons/conflicts?scheduled_time="+url.QueryEscape(start.Format(time.RFC3339))+"&duration_minutes=60")
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	})

	t.Run("bad duration", func(t *testing.T) {
		resp, err := client.Lessons.Conflicts("Room A", start, 900, "")
		if err != nil {
			t.Fatalf("conflicts request failed: %v", err)
		}
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("expected status %d, got %s", http.StatusUnprocessableEntity, resp.ToString())
		}
	})
}
