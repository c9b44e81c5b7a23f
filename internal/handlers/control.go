package handlers

import (
	"net/http"

	"lumen_bridge/internal/models"
	"lumen_bridge/internal/service"

	"github.com/gin-gonic/gin"
)

const statusOnline = "online"

// ControlResponse is the command as the device reads it. Color is omitted in auto mode.
type ControlResponse struct {
	// Mode: auto | manual
	Modo string `json:"modo" example:"manual"`
	// Color, present only when modo=manual
	Cor *models.Color `json:"cor,omitempty"`
}

// SetControlRequest is an exported model for Swagger docs of the setControl payload.
type SetControlRequest struct {
	// Mode to set. Allowed: auto, manual
	Modo string `json:"modo" example:"manual"`
	// RGB color, each channel 0..255. Ignored when modo=auto.
	Cor *models.Color `json:"cor,omitempty"`
}

func toControlResponse(c models.ControlCommand) ControlResponse {
	resp := ControlResponse{Modo: c.Mode}
	if c.Mode == models.ModeManual {
		color := c.Color
		resp.Cor = &color
	}
	return resp
}

// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /status/ [get]
func (h *Handler) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOnline})
}

// @Summary      Current control command
// @Description  Polled by the device. Never 404: an untouched mailbox answers {"modo":"auto"}.
// @Tags         controle
// @Produce      json
// @Success      200  {object}  ControlResponse
// @Failure      500  {object}  errorResponse
// @Router       /controle/ [get]
func (h *Handler) getControl(c *gin.Context) {
	cmd, err := h.services.Mailbox.Get(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "control_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, toControlResponse(cmd))
}

// @Summary      Replace the control command
// @Description  auto ignores cor; manual without cor keeps the previous color.
// @Tags         controle
// @Accept       json
// @Produce      json
// @Param        body  body      SetControlRequest  true  "Command payload"
// @Success      200   {object}  ControlResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /controle/ [post]
func (h *Handler) setControl(c *gin.Context) {
	var req service.CommandParams
	if err := bindJSON(c, &req); err != nil {
		h.respondServiceError(c, "control_bad_request_body", err)
		return
	}
	cmd, err := h.services.Mailbox.Set(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, "control_set_failed", err)
		return
	}
	if h.log != nil {
		h.log.Infow("control_set", "modo", cmd.Mode, "cor", cmd.Color)
	}
	c.JSON(http.StatusOK, toControlResponse(cmd))
}
