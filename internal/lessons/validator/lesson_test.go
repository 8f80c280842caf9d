package validator

import (
	"strings"
	"testing"
	"time"

	"lessonbook/pkg/logger"
	"lessonbook/pkg/model"
)

func newTestValidator() *LessonValidator {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewLessonValidator(log)
}

func TestValidate(t *testing.T) {
	validator := newTestValidator()
	scheduled := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)

	valid := func() *model.Lesson {
		return &model.Lesson{
			Subject:         "Algebra",
			Teacher:         "Ms. Rivera",
			Classroom:       "Room A",
			ScheduledTime:   scheduled,
			DurationMinutes: 60,
		}
	}

	tests := []struct {
		name      string
		mutate    func(l *model.Lesson)
		wantError string
	}{
		{
			name:   "valid lesson",
			mutate: func(l *model.Lesson) {},
		},
		{
			name:   "one minute lesson",
			mutate: func(l *model.Lesson) { l.DurationMinutes = 1 },
		},
		{
			name:   "eight hour lesson",
			mutate: func(l *model.Lesson) { l.DurationMinutes = 480 },
		},
		{
			name:   "valid object id",
			mutate: func(l *model.Lesson) { l.ID = "650000000000000000000001" },
		},
		{
			name:      "missing subject",
			mutate:    func(l *model.Lesson) { l.Subject = "" },
			wantError: "Subject is required",
		},
		{
			name:      "missing teacher",
			mutate:    func(l *model.Lesson) { l.Teacher = "" },
			wantError: "Teacher is required",
		},
		{
			name:      "missing classroom",
			mutate:    func(l *model.Lesson) { l.Classroom = "" },
			wantError: "Classroom is required",
		},
		{
			name:      "missing scheduled time",
			mutate:    func(l *model.Lesson) { l.ScheduledTime = time.Time{} },
			wantError: "ScheduledTime is required",
		},
		{
			name:      "zero duration",
			mutate:    func(l *model.Lesson) { l.DurationMinutes = 0 },
			wantError: "DurationMinutes is required",
		},
		{
			name:      "negative duration",
			mutate:    func(l *model.Lesson) { l.DurationMinutes = -30 },
			wantError: "DurationMinutes must be at least 1",
		},
		{
			name:      "duration over eight hours",
			mutate:    func(l *model.Lesson) { l.DurationMinutes = 481 },
			wantError: "DurationMinutes must be at most 480",
		},
		{
			name:      "subject over 100 characters",
			mutate:    func(l *model.Lesson) { l.Subject = strings.Repeat("a", 101) },
			wantError: "Subject must be at most 100",
		},
		{
			name:      "malformed object id",
			mutate:    func(l *model.Lesson) { l.ID = "not-a-hex-id" },
			wantError: "ID must be a valid MongoDB ObjectID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lesson := valid()
			tt.mutate(lesson)

			err := validator.Validate(lesson)
			if tt.wantError == "" {
				if err != nil {
					t.Fatalf("expected valid lesson, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantError) {
				t.Errorf("expected error containing %q, got %q", tt.wantError, err.Error())
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	validator := newTestValidator()

	err := validator.Validate(&model.Lesson{})
	if err == nil {
		t.Fatal("expected validation error for empty lesson")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 5 {
		t.Errorf("expected 5 field errors for empty lesson, got %d: %v", len(verrs), verrs)
	}
}

func TestValidateUpdate(t *testing.T) {
	validator := newTestValidator()
	scheduled := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	zero := time.Time{}
	shortDuration := 30
	badDuration := 900

	tests := []struct {
		name      string
		update    *model.LessonUpdate
		wantError string
	}{
		{
			name:   "empty update is valid",
			update: &model.LessonUpdate{},
		},
		{
			name:   "subject only",
			update: &model.LessonUpdate{Subject: "Geometry"},
		},
		{
			name:   "full slot move",
			update: &model.LessonUpdate{Classroom: "Room B", ScheduledTime: &scheduled, DurationMinutes: &shortDuration},
		},
		{
			name:      "duration out of range",
			update:    &model.LessonUpdate{DurationMinutes: &badDuration},
			wantError: "DurationMinutes must be at most 480",
		},
		{
			name:      "subject over 100 characters",
			update:    &model.LessonUpdate{Subject: strings.Repeat("a", 101)},
			wantError: "Subject must be at most 100",
		},
		{
			name:      "explicit zero scheduled time",
			update:    &model.LessonUpdate{ScheduledTime: &zero},
			wantError: "scheduled_time cannot be the zero instant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateUpdate(tt.update)
			if tt.wantError == "" {
				if err != nil {
					t.Fatalf("expected valid update, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantError) {
				t.Errorf("expected error containing %q, got %q", tt.wantError, err.Error())
			}
		})
	}
}
