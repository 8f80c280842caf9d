package testutil

import (
	"time"

	"lessonbook/pkg/model"
)

type LessonBuilder struct {
	lesson model.Lesson
}

func NewLessonBuilder() *LessonBuilder {
	return &LessonBuilder{
		lesson: model.Lesson{
			Subject:         "Algebra",
			Teacher:         "Ms. Rivera",
			Classroom:       "Room A",
			ScheduledTime:   time.Now().UTC().Add(24 * time.Hour).Truncate(time.Minute),
			DurationMinutes: 60,
		},
	}
}

func (b *LessonBuilder) WithSubject(subject string) *LessonBuilder {
	b.lesson.Subject = subject
	return b
}

func (b *LessonBuilder) WithTeacher(teacher string) *LessonBuilder {
	b.lesson.Teacher = teacher
	return b
}

func (b *LessonBuilder) WithClassroom(classroom string) *LessonBuilder {
	b.lesson.Classroom = classroom
	return b
}

func (b *LessonBuilder) WithScheduledTime(t time.Time) *LessonBuilder {
	b.lesson.ScheduledTime = t
	return b
}

func (b *LessonBuilder) WithDuration(minutes int) *LessonBuilder {
	b.lesson.DurationMinutes = minutes
	return b
}

func (b *LessonBuilder) Build() model.Lesson {
	return b.lesson
}

func ValidLesson() model.Lesson {
	return NewLessonBuilder().Build()
}

func EmptyLesson() model.Lesson {
	return model.Lesson{}
}
