package models

import "errors"

// Общие ошибки приложения
var (
	// Ресурсы и хранилище
	ErrNotFound        = errors.New("resource not found")
	ErrVersionConflict = errors.New("session was modified concurrently")

	// Аутентификация
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// Запросы
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidInput = errors.New("invalid input data")

	// Журнал и фотографии
	ErrDailyPhotoLimit     = errors.New("daily photo limit reached")
	ErrAlreadyPhotographed = errors.New("object already photographed today")
	ErrPhotoNotFound       = errors.New("photo not found in today's journal")

	// Диалоги
	ErrNilDialogueNode  = errors.New("dialogue node is nil")
	ErrNoActiveDialogue = errors.New("no active dialogue")
	ErrInvalidOption    = errors.New("invalid dialogue option index")
	ErrOptionLocked     = errors.New("dialogue option requirements not met")
	ErrDialogueNotFound = errors.New("dialogue not found")

	// Взаимодействия
	ErrUnknownObject       = errors.New("unknown interactable object")
	ErrNoHoveredObject     = errors.New("no object under cursor")
	ErrNotInteractable     = errors.New("object cannot be interacted with")
	ErrInteractionDisabled = errors.New("interaction is disabled")
	ErrRequiresZoom        = errors.New("object can only be photographed when zoomed in")
	ErrMissingTargetScene  = errors.New("door has no target scene")
	ErrMissingDialogue     = errors.New("npc has no dialogue data")

	// Камера
	ErrCameraTransitioning = errors.New("camera is transitioning between positions")
	ErrZoomed              = errors.New("cannot switch camera position while zoomed in")
	ErrInvalidPosition     = errors.New("invalid camera position index")
	ErrNoCameraPositions   = errors.New("no camera positions in scene")

	// Сцены
	ErrAlreadyTransitioning = errors.New("already transitioning to a scene")
	ErrEmptySceneName       = errors.New("scene name is empty")
	ErrUnknownScene         = errors.New("unknown scene")
	ErrSceneTransitioning   = errors.New("scene transition in progress")
)
