package model

import "time"

// LessonLock is an advisory lock over one classroom. It is held for the
// duration of a conflict check plus write so two concurrent writers
// cannot both observe a free classroom and both commit overlapping
// lessons. The unique _id makes the second insert fail atomically;
// expires_at lets a TTL index reap locks orphaned by a crashed writer.
type LessonLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
