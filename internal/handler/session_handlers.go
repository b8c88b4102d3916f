package handler

import (
	"fmt"
	"net/http"

	"investigation-server/internal/models"
	"investigation-server/internal/photography"

	"github.com/labstack/echo/v4"
)

func (h *GameHandler) createSession(c echo.Context) error {
	player, err := playerID(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	view, err := h.service.CreateSession(c.Request().Context(), player)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *GameHandler) listSessions(c echo.Context) error {
	player, err := playerID(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	list, err := h.service.ListSessions(c.Request().Context(), player)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *GameHandler) getSession(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	view, err := h.service.GetSession(c.Request().Context(), player, id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *GameHandler) deleteSession(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	if err := h.service.DeleteSession(c.Request().Context(), player, id); err != nil {
		return handleServiceError(c, err)
	}
	h.hub.CloseSession(id)
	return c.NoContent(http.StatusNoContent)
}

func (h *GameHandler) hover(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	var req hoverRequest
	if err := bindAndValidate(c, &req); err != nil {
		return handleServiceError(c, err)
	}
	view, err := h.service.Hover(c.Request().Context(), player, id, req.ObjectID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *GameHandler) interact(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	var req interactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return handleServiceError(c, err)
	}
	out, err := h.service.Interact(c.Request().Context(), player, id, req.ObjectID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *GameHandler) photograph(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	var req photographRequest
	if err := bindAndValidate(c, &req); err != nil {
		return handleServiceError(c, err)
	}
	if len(req.Image) > 0 && req.ContentType == "" {
		return handleServiceError(c, fmt.Errorf("%w: contentType is required with image", models.ErrBadRequest))
	}
	img := photography.Image{Data: req.Image, ContentType: req.ContentType}
	out, err := h.service.Photograph(c.Request().Context(), player, id, req.ObjectID, img)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *GameHandler) exitZoom(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	view, err := h.service.ExitZoom(c.Request().Context(), player, id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *GameHandler) nextCamera(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	view, err := h.service.NextCamera(c.Request().Context(), player, id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *GameHandler) previousCamera(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	view, err := h.service.PreviousCamera(c.Request().Context(), player, id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *GameHandler) switchCamera(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	var req cameraPositionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return handleServiceError(c, err)
	}
	view, err := h.service.SwitchCamera(c.Request().Context(), player, id, *req.Index)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *GameHandler) look(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	var req lookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return handleServiceError(c, err)
	}
	view, err := h.service.Look(c.Request().Context(), player, id, req.DX, req.DY)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *GameHandler) getJournal(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	jv, err := h.service.Journal(c.Request().Context(), player, id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, jv)
}

func (h *GameHandler) photoURL(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	url, err := h.service.PhotoURL(c.Request().Context(), player, id, c.Param("entryId"))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, photoURLResponse{URL: url})
}

func (h *GameHandler) removePhoto(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	jv, err := h.service.RemovePhoto(c.Request().Context(), player, id, c.Param("entryId"))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, jv)
}

func (h *GameHandler) advanceDay(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	jv, err := h.service.AdvanceDay(c.Request().Context(), player, id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, jv)
}

func (h *GameHandler) getDialogue(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	dv, err := h.service.Dialogue(c.Request().Context(), player, id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dv)
}

func (h *GameHandler) selectOption(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	var req selectOptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return handleServiceError(c, err)
	}
	sel, err := h.service.SelectOption(c.Request().Context(), player, id, *req.Index)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sel)
}

func (h *GameHandler) endDialogue(c echo.Context) error {
	player, id, err := sessionParams(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	dv, err := h.service.EndDialogue(c.Request().Context(), player, id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dv)
}
