package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"lumen_bridge/internal/requestid"
	"lumen_bridge/internal/service"

	"github.com/gin-gonic/gin"
)

// User-facing messages; the API contract is in Portuguese.
const (
	errInvalidData = "dados inválidos"
	errNoReading   = "Nenhuma leitura"
	errInternal    = "erro interno do servidor"
)

// errorResponse is the body of every 4xx/5xx answer from the API.
type errorResponse struct {
	Erro   string              `json:"erro"`
	Campos map[string][]string `json:"campos,omitempty"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "request_id", requestid.Get(c)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, errorResponse{Erro: userMsg})
}

// respondServiceError maps service errors onto HTTP: validation → 400,
// empty register → 404, anything else → 500 with the cause only in the log.
func (h *Handler) respondServiceError(c *gin.Context, logKey string, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		if h.log != nil {
			h.log.Infow(logKey, "err", err, "request_id", requestid.Get(c))
		}
		c.JSON(http.StatusBadRequest, errorResponse{Erro: errInvalidData, Campos: ve.Fields})
	case errors.Is(err, service.ErrNoReadings):
		c.JSON(http.StatusNotFound, errorResponse{Erro: errNoReading})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err)
	}
}

// bindJSON decodes the body into dst. Decoding failures become a
// *service.ValidationError naming the offending field where possible.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return service.NewValidationError(typeErr.Field, fmt.Sprintf("tipo inválido: esperado %s", typeErr.Type))
	case errors.As(err, &syntaxErr):
		return service.NewValidationError("json", fmt.Sprintf("JSON malformado na posição %d", syntaxErr.Offset))
	case errors.Is(err, io.EOF):
		return service.NewValidationError("json", "corpo vazio")
	default:
		return service.NewValidationError("json", "corpo inválido")
	}
}
