package main

import (
	"lessonbook/internal/lessons/events"
	"lessonbook/internal/lessons/handler"
	"lessonbook/internal/lessons/repository"
	"lessonbook/internal/lessons/service"
	"lessonbook/internal/lessons/validator"
	"lessonbook/pkg/app"
	"lessonbook/pkg/config"
)

const ServiceName = "lessons"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Lessons service")

	publisher, err := events.NewPublisher(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	lessonService := initServices(cfg, publisher)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewLessonHandler(lessonService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.LessonService {
	lessonValidator := validator.NewLessonValidator(cfg.Log)
	lessonRepo := repository.NewMongoLessonRepository(cfg)
	lockRepo := repository.NewLessonLockRepository(cfg)
	lessonService := service.NewLessonService(
		lessonRepo,
		lockRepo,
		lessonValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Lesson service initialized", "database", cfg.MongoDatabaseName)
	return lessonService
}
