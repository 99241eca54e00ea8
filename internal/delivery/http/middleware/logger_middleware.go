package middleware

import (
	"log/slog"

	deliverycontext "github.com/AnthonyArce/Tienda/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// RequestContextMiddleware propagates a request ID and a request-scoped
// logger into the request context so the service layer logs with correlation.
type RequestContextMiddleware struct {
	logger *slog.Logger
}

// NewRequestContextMiddleware creates a new request context middleware.
func NewRequestContextMiddleware(logger *slog.Logger) *RequestContextMiddleware {
	return &RequestContextMiddleware{logger: logger}
}

// Handle assigns each request an ID, echoes it back in the response header
// and stores an ID-tagged logger in the request context.
func (m *RequestContextMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(deliverycontext.HeaderXRequestID)
		if requestID == "" {
			requestID = deliverycontext.GetRequestID(c)
		}

		deliverycontext.SetRequestID(c, requestID)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		ctx := deliverycontext.WithRequestID(c.Request().Context(), requestID)
		ctx = deliverycontext.WithLogger(ctx, m.logger.With(slog.String("requestId", requestID)))
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
