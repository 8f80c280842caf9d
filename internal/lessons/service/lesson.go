package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lessonserrors "lessonbook/internal/lessons/errors"
	"lessonbook/internal/lessons/events"
	"lessonbook/internal/lessons/repository"
	"lessonbook/internal/lessons/validator"
	"lessonbook/pkg/config"
	apperrors "lessonbook/pkg/errors"
	"lessonbook/pkg/model"
	"lessonbook/pkg/sanitizer"
	"lessonbook/pkg/timeslot"

	"go.mongodb.org/mongo-driver/mongo"
)

type LessonService interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetByID(ctx context.Context, id string) (*model.Lesson, error)
	List(ctx context.Context, filter *model.LessonFilter, limit int, offset int64) ([]*model.Lesson, int64, error)
	Update(ctx context.Context, id string, updates *model.LessonUpdate) (*model.Lesson, error)
	Delete(ctx context.Context, id string) (bool, error)
	FindConflicts(ctx context.Context, classroom string, start time.Time, durationMinutes int, excludeID string) ([]*model.Lesson, error)
}

type lessonService struct {
	repo      repository.LessonRepository
	lockRepo  repository.LessonLockRepository
	validator *validator.LessonValidator
	events    events.Publisher
	cfg       *config.Config
}

func NewLessonService(
	repo repository.LessonRepository,
	lockRepo repository.LessonLockRepository,
	validator *validator.LessonValidator,
	publisher events.Publisher,
	cfg *config.Config,
) LessonService {
	return &lessonService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		events:    publisher,
		cfg:       cfg,
	}
}

func (s *lessonService) Create(ctx context.Context, lesson *model.Lesson) error {
	s.sanitize(lesson)
	if err := s.validate(lesson); err != nil {
		return err
	}

	// Advisory lock over the classroom, so two concurrent writers cannot
	// both observe it free and both commit overlapping lessons.
	lockID, err := s.acquireClassroomLock(ctx, lesson.Classroom)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseClassroomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release lesson lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, lesson, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, lesson); err != nil {
			return apperrors.Storage("Failed to create lesson", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create lesson", "error", err)
		return err
	}

	s.cfg.Log.Info("Lesson created successfully",
		"id", lesson.ID,
		"classroom", lesson.Classroom,
		"scheduled_time", lesson.ScheduledTime,
		"duration_minutes", lesson.DurationMinutes,
	)
	s.events.LessonCreated(ctx, lesson)
	return nil
}

// GetByID returns (nil, nil) when no lesson has the id. A malformed id
// can never name a stored lesson, so it counts as absent too.
func (s *lessonService) GetByID(ctx context.Context, id string) (*model.Lesson, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Lesson ID cannot be empty")
	}

	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, lessonserrors.ErrNotFound) || errors.Is(err, lessonserrors.ErrInvalidID) {
			return nil, nil
		}
		return nil, apperrors.Storage("Failed to retrieve lesson", err)
	}

	return lesson, nil
}

func (s *lessonService) List(ctx context.Context, filter *model.LessonFilter, limit int, offset int64) ([]*model.Lesson, int64, error) {
	if filter != nil {
		filter.Teacher = sanitizer.NormalizeTeacher(filter.Teacher)
		filter.Classroom = sanitizer.NormalizeClassroom(filter.Classroom)
	}

	var count int64
	var lessons []*model.Lesson
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count lessons", "error", errCount)
			errCount = apperrors.Storage("Failed to count lessons", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		lessons, errFind = s.repo.Find(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list lessons", "error", errFind)
			errFind = apperrors.Storage("Failed to retrieve lessons", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return lessons, count, nil
}

func (s *lessonService) Update(ctx context.Context, id string, updates *model.LessonUpdate) (*model.Lesson, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Lesson ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, lessonserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Lesson", id)
		}
		if errors.Is(err, lessonserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Lesson", id)
		}
		return nil, apperrors.Storage("Failed to check lesson existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Lesson update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := updates.ApplyTo(existing)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	// Updates that leave the slot alone cannot introduce a conflict, so
	// they skip the lock and the scan entirely.
	if !updates.TouchesSlot() {
		err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
				return s.mapUpdateError(id, err)
			}
			return nil
		})
		if err != nil {
			s.cfg.Log.Error("Failed to update lesson", "id", id, "error", err)
			return nil, err
		}

		s.cfg.Log.Info("Lesson updated successfully", "id", id)
		s.events.LessonUpdated(ctx, merged)
		return merged, nil
	}

	lockID, err := s.acquireClassroomLock(ctx, merged.Classroom)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseClassroomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release lesson lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, merged, id); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return s.mapUpdateError(id, err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update lesson", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Lesson updated successfully", "id", id)
	s.events.LessonUpdated(ctx, merged)
	return merged, nil
}

// Delete is idempotent: deleting an absent lesson reports false without
// an error.
func (s *lessonService) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, apperrors.InvalidInput("Lesson ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to delete lesson", "id", id, "error", err)
		return false, apperrors.Storage("Failed to delete lesson", err)
	}

	if deleted {
		s.cfg.Log.Info("Lesson deleted successfully", "id", id)
		classroom := ""
		if existing != nil {
			classroom = existing.Classroom
		}
		s.events.LessonDeleted(ctx, id, classroom)
	}
	return deleted, nil
}

// FindConflicts is the read-only check behind "check before submit". An
// empty result means a write with these coordinates would currently
// preserve the invariant; by the time the caller submits, it may not.
func (s *lessonService) FindConflicts(ctx context.Context, classroom string, start time.Time, durationMinutes int, excludeID string) ([]*model.Lesson, error) {
	classroom = sanitizer.NormalizeClassroom(classroom)
	if classroom == "" {
		return nil, apperrors.InvalidInput("Classroom cannot be empty")
	}
	if durationMinutes < 1 || durationMinutes > model.MaxLessonDurationMinutes {
		return nil, apperrors.Validation("Invalid duration", map[string]any{
			"duration_minutes": fmt.Sprintf("must be between 1 and %d", model.MaxLessonDurationMinutes),
		})
	}

	candidate := timeslot.FromMinutes(start, durationMinutes)
	conflicts, err := s.scanConflicts(ctx, classroom, candidate, excludeID)
	if err != nil {
		return nil, err
	}
	return conflicts, nil
}

// --- Helpers ---

func (s *lessonService) sanitize(l *model.Lesson) {
	l.Subject = sanitizer.NormalizeSubject(l.Subject)
	l.Teacher = sanitizer.NormalizeTeacher(l.Teacher)
	l.Classroom = sanitizer.NormalizeClassroom(l.Classroom)
}

func (s *lessonService) validate(lesson *model.Lesson) error {
	if err := s.validator.Validate(lesson); err != nil {
		s.cfg.Log.Warn("Lesson validation failed", "error", err)
		return apperrors.Validation("Lesson validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *lessonService) mapUpdateError(id string, err error) error {
	if errors.Is(err, lessonserrors.ErrNotFound) || errors.Is(err, lessonserrors.ErrInvalidID) {
		return apperrors.NotFoundWithID("Lesson", id)
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Storage("Failed to update lesson", err)
}

// scanConflicts pulls every same-classroom lesson in a window wide
// enough to contain any possible overlapper, then filters precisely.
// The window pads the candidate by ConflictScanWindow, which is
// validated to exceed the maximum lesson duration, so a lesson outside
// the window cannot overlap the candidate.
func (s *lessonService) scanConflicts(ctx context.Context, classroom string, candidate timeslot.Interval, excludeID string) ([]*model.Lesson, error) {
	window := candidate.Widen(s.cfg.ConflictScanWindow)
	neighbours, err := s.repo.FindByClassroomWindow(ctx, classroom, window)
	if err != nil {
		return nil, apperrors.Storage("Failed to scan for conflicting lessons", err)
	}

	conflicts := make([]*model.Lesson, 0)
	for _, l := range neighbours {
		if excludeID != "" && l.ID == excludeID {
			continue
		}
		if candidate.Overlaps(l.Interval()) {
			conflicts = append(conflicts, l)
		}
	}
	return conflicts, nil
}

// verifyNoConflict fails with a conflict error naming the classroom and
// every colliding interval when the candidate lesson overlaps an
// existing one. excludeID drops the record being updated from the scan.
func (s *lessonService) verifyNoConflict(ctx context.Context, lesson *model.Lesson, excludeID string) error {
	conflicts, err := s.scanConflicts(ctx, lesson.Classroom, lesson.Interval(), excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) == 0 {
		return nil
	}

	intervals := make([]map[string]any, 0, len(conflicts))
	for _, c := range conflicts {
		iv := c.Interval()
		intervals = append(intervals, map[string]any{
			"lesson_id": c.ID,
			"start":     iv.Start.Format(time.RFC3339),
			"end":       iv.End.Format(time.RFC3339),
		})
	}

	first := conflicts[0].Interval()
	return apperrors.Conflict(fmt.Sprintf(
		"Lesson overlaps %d existing lesson(s) in classroom %q (first: %s - %s)",
		len(conflicts),
		lesson.Classroom,
		first.Start.Format(time.RFC3339),
		first.End.Format(time.RFC3339),
	)).WithDetails(map[string]any{
		"classroom": lesson.Classroom,
		"conflicts": intervals,
	})
}

// acquireClassroomLock creates an advisory lock for a classroom.
// The lock covers the whole classroom, not one slot: two writers with
// different start times can still overlap each other, and snapshot
// isolation does not abort inserts into distinct documents, so anything
// narrower reopens the check-then-act race. Returns the lock ID if
// successful, or a conflict error if another writer holds the
// classroom.
func (s *lessonService) acquireClassroomLock(ctx context.Context, classroom string) (string, error) {
	lockID := fmt.Sprintf("lesson_lock_%s", classroom)

	lock := &model.LessonLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(10 * time.Second), // reaped by TTL index if orphaned
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This classroom is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Storage("Failed to acquire lesson lock", err)
	}

	return lockID, nil
}

// releaseClassroomLock removes the advisory lock
func (s *lessonService) releaseClassroomLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
