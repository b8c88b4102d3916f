package service

import (
	"errors"

	"investigation-server/internal/models"
)

// refusals - игровые отказы: ошибка игрока, а не сервера.
var refusals = []error{
	models.ErrNotFound,
	models.ErrForbidden,
	models.ErrInvalidInput,
	models.ErrDailyPhotoLimit,
	models.ErrAlreadyPhotographed,
	models.ErrPhotoNotFound,
	models.ErrNoActiveDialogue,
	models.ErrInvalidOption,
	models.ErrOptionLocked,
	models.ErrDialogueNotFound,
	models.ErrUnknownObject,
	models.ErrNoHoveredObject,
	models.ErrNotInteractable,
	models.ErrInteractionDisabled,
	models.ErrRequiresZoom,
	models.ErrCameraTransitioning,
	models.ErrZoomed,
	models.ErrInvalidPosition,
	models.ErrNoCameraPositions,
	models.ErrAlreadyTransitioning,
	models.ErrSceneTransitioning,
	models.ErrUnknownScene,
	models.ErrVersionConflict,
}

func isRefusal(err error) bool {
	for _, r := range refusals {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
