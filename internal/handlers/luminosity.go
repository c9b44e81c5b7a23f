package handlers

import (
	"net/http"
	"strconv"

	"lumen_bridge/internal/models"
	"lumen_bridge/internal/service"

	"github.com/gin-gonic/gin"
)

// PostReadingRequest is an exported model for Swagger docs of the postReading payload.
type PostReadingRequest struct {
	// Raw luminosity sample
	Valor int `json:"valor" example:"512"`
	// Device operating mode at capture time (max 50 chars)
	Modo string `json:"modo" example:"auto"`
}

// ReadingListResponse wraps the history listing.
type ReadingListResponse struct {
	Count    int                    `json:"count"`
	Leituras []models.SensorReading `json:"leituras"`
}

// @Summary      Latest luminosity reading
// @Tags         luminosidade
// @Produce      json
// @Success      200  {object}  models.SensorReading
// @Failure      404  {object}  errorResponse  "no reading yet"
// @Failure      500  {object}  errorResponse
// @Router       /luminosidade/ [get]
func (h *Handler) getLatestReading(c *gin.Context) {
	rd, err := h.services.Register.Latest(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "reading_latest_failed", err)
		return
	}
	c.JSON(http.StatusOK, rd)
}

// @Summary      Record a luminosity reading
// @Description  Called by the device. The server assigns id and timestamp.
// @Tags         luminosidade
// @Accept       json
// @Produce      json
// @Param        body  body      PostReadingRequest  true  "Reading payload"
// @Success      201   {object}  models.SensorReading
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /luminosidade/ [post]
func (h *Handler) postReading(c *gin.Context) {
	var req service.ReadingParams
	if err := bindJSON(c, &req); err != nil {
		h.respondServiceError(c, "reading_bad_request_body", err)
		return
	}
	rd, err := h.services.Register.Append(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, "reading_append_failed", err)
		return
	}
	c.JSON(http.StatusCreated, rd)
}

// @Summary      Recent readings
// @Description  Newest first. limite defaults to 20 and is capped at 500.
// @Tags         luminosidade
// @Produce      json
// @Param        limite  query     int  false  "Maximum number of readings"  example(20)
// @Success      200     {object}  ReadingListResponse
// @Failure      400     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /luminosidade/historico/ [get]
func (h *Handler) listReadings(c *gin.Context) {
	limit := 0
	if qs := c.Query("limite"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v <= 0 {
			h.respondServiceError(c, "reading_list_bad_limit", service.NewValidationError("limite", "deve ser um inteiro positivo"))
			return
		}
		limit = v
	}
	out, err := h.services.Register.Recent(c.Request.Context(), limit)
	if err != nil {
		h.respondServiceError(c, "reading_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, ReadingListResponse{Count: len(out), Leituras: out})
}
