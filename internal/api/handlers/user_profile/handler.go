package user_profile

import (
	"errors"
	"net/http"

	"github.com/m04kA/counseling-booking-service/internal/api/handlers"
	"github.com/m04kA/counseling-booking-service/internal/api/middleware"
	"github.com/m04kA/counseling-booking-service/internal/service/users"
	"github.com/m04kA/counseling-booking-service/internal/service/users/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidProfile     = "некорректные контактные данные"
	msgProfileNotFound    = "профиль не найден"
)

type Handler struct {
	service UserService
	logger  Logger
}

func NewHandler(service UserService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGet GET /api/v1/users/me
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/me - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			h.logger.Warn("GET /users/me - Profile not found: user_id=%s", userID)
			handlers.RespondNotFound(w, msgProfileNotFound)
			return
		}
		h.logger.Error("GET /users/me - Failed to get profile: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpdate PUT /api/v1/users/me
// Имя из заголовка X-User-Name используется, если в теле его нет
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /users/me - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateProfileRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /users/me - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.Name == nil {
		if name := middleware.GetUserName(r.Context()); name != "" {
			req.Name = &name
		}
	}

	result, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, users.ErrInvalidInput) {
			h.logger.Warn("PUT /users/me - Invalid profile: user_id=%s, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidProfile)
			return
		}
		h.logger.Error("PUT /users/me - Failed to update profile: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /users/me - Profile updated: user_id=%s, id=%d", userID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
