package handler

import (
	"errors"
	"net/http"

	"investigation-server/internal/models"

	"github.com/labstack/echo/v4"
)

// APIError - тело ответа с ошибкой.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings проверяются по порядку, первое совпадение определяет ответ.
var errorMappings = []errorMapping{
	{models.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{models.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
	{models.ErrTokenInvalid, http.StatusUnauthorized, "token_invalid"},
	{models.ErrTokenMalformed, http.StatusUnauthorized, "token_malformed"},
	{models.ErrForbidden, http.StatusForbidden, "forbidden"},

	{models.ErrNotFound, http.StatusNotFound, "not_found"},
	{models.ErrUnknownObject, http.StatusNotFound, "unknown_object"},
	{models.ErrPhotoNotFound, http.StatusNotFound, "photo_not_found"},
	{models.ErrDialogueNotFound, http.StatusNotFound, "dialogue_not_found"},
	{models.ErrUnknownScene, http.StatusNotFound, "unknown_scene"},

	{models.ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{models.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{models.ErrInvalidOption, http.StatusBadRequest, "invalid_option"},
	{models.ErrInvalidPosition, http.StatusBadRequest, "invalid_position"},
	{models.ErrNoHoveredObject, http.StatusBadRequest, "no_hovered_object"},

	{models.ErrVersionConflict, http.StatusConflict, "version_conflict"},
	{models.ErrCameraTransitioning, http.StatusConflict, "camera_transitioning"},
	{models.ErrSceneTransitioning, http.StatusConflict, "scene_transitioning"},
	{models.ErrAlreadyTransitioning, http.StatusConflict, "scene_transitioning"},
	{models.ErrZoomed, http.StatusConflict, "zoomed"},
	{models.ErrNoActiveDialogue, http.StatusConflict, "no_active_dialogue"},
	{models.ErrAlreadyPhotographed, http.StatusConflict, "already_photographed"},

	{models.ErrDailyPhotoLimit, http.StatusTooManyRequests, "daily_photo_limit"},

	{models.ErrOptionLocked, http.StatusUnprocessableEntity, "option_locked"},
	{models.ErrNotInteractable, http.StatusUnprocessableEntity, "not_interactable"},
	{models.ErrInteractionDisabled, http.StatusUnprocessableEntity, "interaction_disabled"},
	{models.ErrRequiresZoom, http.StatusUnprocessableEntity, "requires_zoom"},
	{models.ErrNoCameraPositions, http.StatusUnprocessableEntity, "no_camera_positions"},
	{models.ErrMissingTargetScene, http.StatusUnprocessableEntity, "missing_target_scene"},
	{models.ErrMissingDialogue, http.StatusUnprocessableEntity, "missing_dialogue"},
	{models.ErrNilDialogueNode, http.StatusUnprocessableEntity, "missing_dialogue"},
}

// handleServiceError переводит ошибку сервиса в HTTP-ответ. Внутренние
// ошибки не раскрываются клиенту.
func handleServiceError(c echo.Context, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.JSON(m.status, APIError{Message: err.Error(), Code: m.code})
		}
	}
	return c.JSON(http.StatusInternalServerError, APIError{Message: "Internal server error", Code: "internal"})
}
