package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	lessonserrors "lessonbook/internal/lessons/errors"
	"lessonbook/pkg/config"
	mongotx "lessonbook/pkg/db/mongo"
	"lessonbook/pkg/model"
	"lessonbook/pkg/timeslot"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Lessons"
)

type mongoLessonRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type LessonRepository interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	FindByID(ctx context.Context, id string) (*model.Lesson, error)
	Find(ctx context.Context, filter *model.LessonFilter, limit int, offset int64) ([]*model.Lesson, error)
	Count(ctx context.Context, filter *model.LessonFilter) (int64, error)
	FindByClassroomWindow(ctx context.Context, classroom string, window timeslot.Interval) ([]*model.Lesson, error)
	Update(ctx context.Context, id string, lesson *model.Lesson) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) (bool, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoLessonRepository(cfg *config.Config) LessonRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLessonRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context
// unchanged with a no-op cancel function, as wrapping a SessionContext would
// break transaction semantics.
func (r *mongoLessonRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoLessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lesson.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, lesson)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		lesson.ID = oid.Hex()
	}
	return nil
}

func (r *mongoLessonRepository) FindByID(ctx context.Context, id string) (*model.Lesson, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", lessonserrors.ErrInvalidID, id)
	}

	var lesson model.Lesson
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&lesson)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, lessonserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find lesson: %w", err)
	}

	return &lesson, nil
}

func (r *mongoLessonRepository) Find(ctx context.Context, filter *model.LessonFilter, limit int, offset int64) ([]*model.Lesson, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_time", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildListFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find lessons: %w", err)
	}
	defer cursor.Close(ctx)

	var lessons []*model.Lesson
	if err = cursor.All(ctx, &lessons); err != nil {
		return nil, fmt.Errorf("failed to decode lessons: %w", err)
	}

	return lessons, nil
}

func (r *mongoLessonRepository) Count(ctx context.Context, filter *model.LessonFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildListFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	return count, nil
}

// FindByClassroomWindow is the coarse conflict pre-filter: every lesson in the
// classroom whose scheduled_time falls inside the window. The window must be
// padded by more than the maximum lesson duration, otherwise a lesson starting
// just before the window could still overlap the candidate and be missed.
func (r *mongoLessonRepository) FindByClassroomWindow(ctx context.Context, classroom string, window timeslot.Interval) ([]*model.Lesson, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"classroom": classroom,
		"scheduled_time": bson.M{
			"$gte": window.Start,
			"$lt":  window.End,
		},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_time", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to scan classroom window: %w", err)
	}
	defer cursor.Close(ctx)

	var lessons []*model.Lesson
	if err = cursor.All(ctx, &lessons); err != nil {
		return nil, fmt.Errorf("failed to decode lessons: %w", err)
	}

	return lessons, nil
}

func (r *mongoLessonRepository) Update(ctx context.Context, id string, lesson *model.Lesson) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", lessonserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{
		"$set": bson.M{
			"subject":          lesson.Subject,
			"teacher":          lesson.Teacher,
			"classroom":        lesson.Classroom,
			"scheduled_time":   lesson.ScheduledTime,
			"duration_minutes": lesson.DurationMinutes,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, lessonserrors.ErrNotFound
	}

	return result, nil
}

// Delete removes a lesson and reports whether anything was removed. A
// malformed id can never name a stored lesson, so it counts as absent
// rather than an error.
func (r *mongoLessonRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return false, fmt.Errorf("failed to delete lesson: %w", err)
	}

	return result.DeletedCount > 0, nil
}

func (r *mongoLessonRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func buildListFilter(f *model.LessonFilter) bson.M {
	filter := bson.M{}
	if f == nil {
		return filter
	}

	if f.Teacher != "" {
		filter["teacher"] = f.Teacher
	}
	if f.Classroom != "" {
		filter["classroom"] = f.Classroom
	}
	if f.Date != nil {
		day := timeslot.Day(*f.Date)
		filter["scheduled_time"] = bson.M{
			"$gte": day.Start,
			"$lt":  day.End,
		}
	}

	return filter
}
