package board

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bulletin/internal/httperr"
	"bulletin/internal/providers/search"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	Post(c *gin.Context)
	Comment(c *gin.Context)
	Load(c *gin.Context)
	List(c *gin.Context)
	Delete(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{service: service, logger: logger}
}

// @Summary Post a board
// @Description Create a board, or re-fetch it when the body already carries a boardId
// @Tags Board
// @Accept json
// @Produce json
// @Success 200 {object} Board
// @Failure 400 {object} httperr.Payload
// @Router / [post]
func (h *handler) Post(c *gin.Context) {
	var b Board
	if err := c.ShouldBindJSON(&b); err != nil {
		httperr.BadRequest(c, h.logger, err.Error())
		return
	}

	saved, err := h.service.Post(c.Request.Context(), &b)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// @Summary Comment on a board
// @Description Append a comment to the board's comment list
// @Tags Board
// @Accept json
// @Produce json
// @Param boardId path string true "Board identifier"
// @Success 200 {object} Board
// @Failure 404 {object} httperr.Payload
// @Router /comment/{boardId} [post]
func (h *handler) Comment(c *gin.Context) {
	var cm Comment
	if err := c.ShouldBindJSON(&cm); err != nil {
		httperr.BadRequest(c, h.logger, err.Error())
		return
	}

	b, err := h.service.Comment(c.Request.Context(), c.Param("boardId"), &cm)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary Load a board
// @Description Fetch a single board by its logical identifier
// @Tags Board
// @Produce json
// @Param boardId path string true "Board identifier"
// @Success 200 {object} Board
// @Failure 404 {object} httperr.Payload
// @Router /{boardId} [get]
func (h *handler) Load(c *gin.Context) {
	b, err := h.service.Load(c.Request.Context(), c.Param("boardId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary List boards
// @Description Page through all boards as a newline-delimited JSON stream
// @Tags Board
// @Produce json
// @Param page path int true "0-indexed page"
// @Param size path int true "page length"
// @Success 200 {string} string "application/x-ndjson"
// @Router /all/{page}/{size} [get]
func (h *handler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 0 {
		httperr.BadRequest(c, h.logger, "page must be a non-negative integer")
		return
	}
	size, err := strconv.Atoi(c.Param("size"))
	if err != nil || size < 1 {
		httperr.BadRequest(c, h.logger, "size must be a positive integer")
		return
	}

	boards, err := h.service.List(c.Request.Context(), page, size)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Status(http.StatusOK)
	enc := json.NewEncoder(c.Writer)
	for _, b := range boards {
		if err := enc.Encode(b); err != nil {
			h.logger.Warn("Board stream aborted", zap.Error(err))
			return
		}
	}
}

// @Summary Delete a board
// @Description Remove a board and its comments, returning the removed boardId
// @Tags Board
// @Produce json
// @Param boardId path string true "Board identifier"
// @Success 200 {string} string
// @Failure 404 {object} httperr.Payload
// @Router /{boardId} [delete]
func (h *handler) Delete(c *gin.Context) {
	id, err := h.service.Delete(c.Request.Context(), c.Param("boardId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, id)
}

func (h *handler) fail(c *gin.Context, err error) {
	switch {
	case httperr.IsNotFound(err):
		httperr.Abort(c, h.logger, http.StatusNotFound, err.Error())
	case errors.Is(err, search.ErrNotReady):
		httperr.Abort(c, h.logger, http.StatusServiceUnavailable, err.Error())
	default:
		httperr.Abort(c, h.logger, http.StatusInternalServerError, err.Error())
	}
}
