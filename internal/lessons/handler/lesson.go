package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"lessonbook/internal/lessons/service"
	apperrors "lessonbook/pkg/errors"
	httputil "lessonbook/pkg/http"
	"lessonbook/pkg/logger"
	"lessonbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type LessonHandler struct {
	service service.LessonService
	log     *logger.Logger
}

func NewLessonHandler(service service.LessonService, log *logger.Logger) *LessonHandler {
	return &LessonHandler{
		service: service,
		log:     log,
	}
}

func (h *LessonHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var lesson model.Lesson
	if err := json.NewDecoder(r.Body).Decode(&lesson); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	// The repository assigns ids and creation stamps; anything the
	// caller sent for them is dropped.
	lesson.ID = ""
	lesson.CreatedAt = time.Time{}

	if err := h.service.Create(r.Context(), &lesson); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, lesson); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *LessonHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	lesson, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	// Absence is not a service error, but over HTTP it is still a 404.
	if lesson == nil {
		if writeErr := httputil.WriteError(w, apperrors.NotFoundWithID("Lesson", id)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, lesson); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	filter, err := extractListFilter(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	lessons, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, lessons, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *LessonHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.LessonUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	updated, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *LessonHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, httputil.DeletedResponse{Deleted: deleted}); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *LessonHandler) Conflicts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	classroom := query.Get("classroom")
	if classroom == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'classroom' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Conflicts", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	scheduledTime, err := httputil.ExtractTime(r, "scheduled_time")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Conflicts", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	if scheduledTime == nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'scheduled_time' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Conflicts", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	durationStr := query.Get("duration_minutes")
	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid duration_minutes parameter: %s", durationStr))); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Conflicts", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	excludeID := query.Get("exclude_id")

	conflicts, err := h.service.FindConflicts(r.Context(), classroom, *scheduledTime, duration, excludeID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Conflicts", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, conflicts); err != nil {
		h.log.Error("failed to write success response", "handler", "Conflicts", "operation", "WriteSuccess", "error", err)
	}
}

func extractListFilter(r *http.Request) (*model.LessonFilter, error) {
	query := r.URL.Query()

	filter := &model.LessonFilter{
		Teacher:   query.Get("teacher"),
		Classroom: query.Get("classroom"),
	}

	if dateStr := query.Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid date parameter, must be YYYY-MM-DD")
		}
		filter.Date = &parsed
	}

	return filter, nil
}

func (h *LessonHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/lessons", h.Create)
	router.GET("/api/v1/lessons", h.List)
	router.GET("/api/v1/lessons/id/:id", h.GetByID)
	router.PATCH("/api/v1/lessons/id/:id", h.Update)
	router.DELETE("/api/v1/lessons/id/:id", h.Delete)
	router.GET("/api/v1/lessons/conflicts", h.Conflicts)
}
