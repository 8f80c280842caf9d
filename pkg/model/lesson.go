package model

import (
	"time"

	"lessonbook/pkg/timeslot"
)

// MaxLessonDurationMinutes caps a single lesson at 8 hours so a booking
// can never span more than one coarse conflict-scan window.
const MaxLessonDurationMinutes = 480

// Lesson reserves one classroom for one contiguous time interval.
// Classroom is the partition key for conflict checking: lessons in
// different classrooms never conflict.
type Lesson struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Subject         string    `json:"subject" bson:"subject" validate:"required,min=1,max=100"`
	Teacher         string    `json:"teacher" bson:"teacher" validate:"required,min=1,max=100"`
	Classroom       string    `json:"classroom" bson:"classroom" validate:"required,min=1,max=100"`
	ScheduledTime   time.Time `json:"scheduled_time" bson:"scheduled_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" bson:"duration_minutes" validate:"required,min=1,max=480"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Interval is the half-open occupied range [scheduled_time,
// scheduled_time + duration_minutes).
func (l *Lesson) Interval() timeslot.Interval {
	return timeslot.FromMinutes(l.ScheduledTime, l.DurationMinutes)
}

// LessonUpdate carries a partial update. Absent fields (zero string,
// nil pointer) retain the stored value; the merge happens over an
// immutable snapshot of the existing record, never in place.
type LessonUpdate struct {
	Subject         string     `json:"subject,omitempty" validate:"omitempty,min=1,max=100"`
	Teacher         string     `json:"teacher,omitempty" validate:"omitempty,min=1,max=100"`
	Classroom       string     `json:"classroom,omitempty" validate:"omitempty,min=1,max=100"`
	ScheduledTime   *time.Time `json:"scheduled_time,omitempty" validate:"omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty" validate:"omitempty,min=1,max=480"`
}

// TouchesSlot reports whether the update changes any field the conflict
// invariant depends on. Updates that leave classroom, start and
// duration alone never need re-validation against other lessons.
func (u *LessonUpdate) TouchesSlot() bool {
	return u.Classroom != "" || u.ScheduledTime != nil || u.DurationMinutes != nil
}

// ApplyTo overlays the present fields onto a copy of existing and
// returns the merged record. ID and CreatedAt are immutable and always
// carried over from the stored record.
func (u *LessonUpdate) ApplyTo(existing *Lesson) *Lesson {
	merged := *existing

	if u.Subject != "" {
		merged.Subject = u.Subject
	}
	if u.Teacher != "" {
		merged.Teacher = u.Teacher
	}
	if u.Classroom != "" {
		merged.Classroom = u.Classroom
	}
	if u.ScheduledTime != nil {
		merged.ScheduledTime = *u.ScheduledTime
	}
	if u.DurationMinutes != nil {
		merged.DurationMinutes = *u.DurationMinutes
	}

	return &merged
}

// LessonFilter narrows a listing. All fields are optional and combine
// with AND semantics. Date matches lessons whose scheduled_time falls
// on the same calendar day in the date's own location.
type LessonFilter struct {
	Teacher   string
	Classroom string
	Date      *time.Time
}
