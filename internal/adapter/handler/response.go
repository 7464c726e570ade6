package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

const fallbackWarning = "remote store unavailable, change applied to the local snapshot only"

type errorResponse struct {
	Error string `json:"error"`
}

type stockResponse struct {
	Product *domain.Product `json:"product"`
	Warning string          `json:"warning,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidBackendMode),
		errors.Is(err, domain.ErrInvalidPrice):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOutOfStock), errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageFor prefers the server's own wording for remote rejections.
func messageFor(err error) string {
	var rerr *domain.RemoteError
	if errors.As(err, &rerr) && rerr.Message != "" && !errors.Is(rerr, domain.ErrTransport) {
		return rerr.Message
	}
	return err.Error()
}

func (h *HTTPHandler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		c.Error(err)
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: messageFor(err)})
}

// respondStock answers a stock mutation. A change that only reached the local
// snapshot is accepted, not OK.
func (h *HTTPHandler) respondStock(c *gin.Context, product *domain.Product, err error) {
	switch {
	case err != nil && errors.Is(err, domain.ErrLocalFallback) && product != nil:
		h.log.WithError(err).WithField("product_id", product.ID).Warn("stock change applied locally")
		c.JSON(http.StatusAccepted, stockResponse{Product: product, Warning: fallbackWarning})
	case err != nil:
		h.fail(c, err)
	case product == nil:
		h.fail(c, domain.ErrNotFound)
	default:
		c.JSON(http.StatusOK, stockResponse{Product: product})
	}
}
