package integration

import (
	"net/http"
	"testing"
	"time"

	"lessonbook/pkg/model"
	"lessonbook/test/integration/testutil"
)

func TestGet_ExistingLesson(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	lesson := testutil.ValidLesson()
	resp := client.POST(t, "/api/v1/lessons", lesson)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var createEnvelope struct {
		Data model.Lesson `json:"data"`
	}
	if err := resp.DecodeJSON(&createEnvelope); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	resp = client.GET(t, "/api/v1/lessons/id/"+createEnvelope.Data.ID)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var getEnvelope struct {
		Data model.Lesson `json:"data"`
	}
	if err := resp.DecodeJSON(&getEnvelope); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if getEnvelope.Data.ID != createEnvelope.Data.ID {
		t.Errorf("expected id %q, got %q", createEnvelope.Data.ID, getEnvelope.Data.ID)
	}
	if getEnvelope.Data.Subject != lesson.Subject {
		t.Errorf("expected subject %q, got %q", lesson.Subject, getEnvelope.Data.Subject)
	}
}

func TestGet_AbsentLesson(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	testCases := []struct {
		name string
		id   string
	}{
		{name: "well-formed but unknown", id: "650000000000000000000000"},
		{name: "malformed id", id: "not-a-valid-objectid"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := client.GET(t, "/api/v1/lessons/id/"+tc.id)
			testutil.AssertStatusCode(t, resp, http.StatusNotFound)
		})
	}
}

func TestList_FiltersAndOrdering(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	day := time.Now().UTC().Add(72 * time.Hour).Truncate(24 * time.Hour)

	seed := []model.Lesson{
		testutil.NewLessonBuilder().WithSubject("History").WithTeacher("Ms. Rivera").
			WithClassroom("Room A").WithScheduledTime(day.Add(10 * time.Hour)).Build(),
		testutil.NewLessonBuilder().WithSubject("Biology").WithTeacher("Mr. Chen").
			WithClassroom("Room A").WithScheduledTime(day.Add(12 * time.Hour)).Build(),
		testutil.NewLessonBuilder().WithSubject("Chemistry").WithTeacher("Ms. Rivera").
			WithClassroom("Room B").WithScheduledTime(day.Add(9 * time.Hour)).Build(),
		testutil.NewLessonBuilder().WithSubject("Physics").WithTeacher("Ms. Rivera").
			WithClassroom("Room C").WithScheduledTime(day.Add(49 * time.Hour)).Build(),
	}
	for _, lesson := range seed {
		resp := client.POST(t, "/api/v1/lessons", lesson)
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
	}

	type listEnvelope struct {
		Data       []model.Lesson `json:"data"`
		TotalCount int64          `json:"total_count"`
	}

	t.Run("filter by teacher", func(t *testing.T) {
		resp := client.GET(t, "/api/v1/lessons?teacher=Ms.+Rivera")
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var listing listEnvelope
		if err := resp.DecodeJSON(&listing); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if listing.TotalCount != 3 {
			t.Errorf("expected total_count 3, got %d", listing.TotalCount)
		}
		for _, l := range listing.Data {
			if l.Teacher != "Ms. Rivera" {
				t.Errorf("unexpected teacher %q in filtered listing", l.Teacher)
			}
		}
	})

	t.Run("conjunctive teacher and classroom", func(t *testing.T) {
		resp := client.GET(t, "/api/v1/lessons?teacher=Ms.+Rivera&classroom=Room+A")
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var listing listEnvelope
		if err := resp.DecodeJSON(&listing); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if listing.TotalCount != 1 {
			t.Fatalf("expected total_count 1, got %d", listing.TotalCount)
		}
		if listing.Data[0].Subject != "History" {
			t.Errorf("expected History, got %q", listing.Data[0].Subject)
		}
	})

	t.Run("filter by date", func(t *testing.T) {
		// Through the typed client, which must encode the filter as a
		// calendar day rather than a full timestamp.
		filterDay := day
		resp, err := client.Lessons.List(&model.LessonFilter{Date: &filterDay}, 100, 0)
		if err != nil {
			t.Fatalf("list request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %s", http.StatusOK, resp.ToString())
		}

		lessons, meta, err := client.Lessons.DecodeLessons(resp)
		if err != nil {
			t.Fatalf("failed to decode listing: %v", err)
		}
		// Physics is two days later and must not appear.
		if meta.TotalCount != 3 {
			t.Errorf("expected total_count 3, got %d", meta.TotalCount)
		}
		for _, l := range lessons {
			if l.Subject == "Physics" {
				t.Errorf("lesson outside the filtered day returned: %q", l.Subject)
			}
		}
	})

	t.Run("ordered by scheduled_time ascending", func(t *testing.T) {
		resp := client.GET(t, "/api/v1/lessons?limit=100")
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var listing listEnvelope
		if err := resp.DecodeJSON(&listing); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		for i := 1; i < len(listing.Data); i++ {
			if listing.Data[i].ScheduledTime.Before(listing.Data[i-1].ScheduledTime) {
				t.Errorf("listing out of order at index %d", i)
			}
		}
	})
}
