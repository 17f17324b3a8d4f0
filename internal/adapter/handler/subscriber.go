package handler

import (
	"fmt"
	"html"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/cicero-foco/cicero/errors"
	subdto "github.com/cicero-foco/cicero/internal/adapter/dto/subscriber"
	"github.com/cicero-foco/cicero/internal/usecase/subscription"
)

// Subscriber handles the public notification list endpoints
type Subscriber struct {
	svc    subscription.Service
	logger *zap.Logger
}

// NewSubscriber creates a new subscriber handler
func NewSubscriber(svc subscription.Service, logger *zap.Logger) *Subscriber {
	return &Subscriber{svc: svc, logger: logger}
}

// Subscribe adds an email to the notification list
func (h *Subscriber) Subscribe(c echo.Context) error {
	var req subdto.SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	result, err := h.svc.Subscribe(c.Request().Context(), req.Email)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, subdto.SubscriptionResponse{
		Success: result.Success,
		Message: result.Message,
	})
}

// Unsubscribe removes an email from the notification list
func (h *Subscriber) Unsubscribe(c echo.Context) error {
	var req subdto.UnsubscribeRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if req.Email == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("email is required"))
	}

	result, err := h.svc.Unsubscribe(c.Request().Context(), req.Email)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, subdto.SubscriptionResponse{
		Success: result.Success,
		Message: result.Message,
	})
}

// UnsubscribeLink serves the one-click unsubscribe link embedded in
// notification emails and renders a small confirmation page
func (h *Subscriber) UnsubscribeLink(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.HTML(http.StatusBadRequest, "<p>Missing email address.</p>")
	}

	result, err := h.svc.Unsubscribe(c.Request().Context(), email)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("❌ Unsubscribe link failed", zap.Error(err))
		}
		return c.HTML(http.StatusInternalServerError, "<p>Something went wrong. Please try again later.</p>")
	}

	page := fmt.Sprintf(
		"<html><body style=\"font-family: sans-serif; text-align: center; padding: 48px;\"><h2>%s</h2><p>You will no longer receive meeting summary emails.</p></body></html>",
		html.EscapeString(result.Message),
	)
	return c.HTML(http.StatusOK, page)
}

// Count returns the active subscriber count for landing page stats
func (h *Subscriber) Count(c echo.Context) error {
	count, err := h.svc.CountActive(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("count subscribers", err))
	}
	return HandleSuccess(h.logger, c, subdto.CountResponse{Count: count})
}
