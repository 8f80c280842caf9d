package repository

import (
	"context"
	"time"

	"lessonbook/pkg/config"
	"lessonbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Lesson_locks"

// LessonLockRepository provides operations for advisory classroom locks
type LessonLockRepository interface {
	Create(ctx context.Context, lock *model.LessonLock) (*model.LessonLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoLessonLockRepository struct {
	collection *mongo.Collection
}

func NewLessonLockRepository(cfg *config.Config) LessonLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLessonLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// Returns duplicate key error if lock already exists
func (r *mongoLessonLockRepository) Create(ctx context.Context, lock *model.LessonLock) (*model.LessonLock, error) {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

// Delete removes an advisory lock
func (r *mongoLessonLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
