package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/ticket-reply-service/internal/errs"
	"github.com/psds-microservice/ticket-reply-service/internal/model"
	"github.com/psds-microservice/ticket-reply-service/internal/service"
)

const maxSubmitBody = 1 << 20

type TicketHandler struct {
	gw  *service.Gateway
	log *slog.Logger
}

func NewTicketHandler(gw *service.Gateway, log *slog.Logger) *TicketHandler {
	return &TicketHandler{gw: gw, log: log}
}

// Lookup — GET /ticket?ticket_id=&token=
func (h *TicketHandler) Lookup(c *gin.Context) {
	t, err := h.gw.Lookup(c.Request.Context(), c.Query("ticket_id"), c.Query("token"))
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"exists": false})
			return
		}
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"exists": true,
		"ticket": t.View(),
	})
}

// Submit — POST /submit
func (h *TicketHandler) Submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmitBody)
	var draft model.ReplyDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := h.gw.Submit(c.Request.Context(), draft, RequestID(c)); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
