package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"investigation-server/internal/auth"
	"investigation-server/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// EchoZapLogger логирует запросы через zap.
func EchoZapLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			res := c.Response()

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.String("user_agent", req.UserAgent()),
			}
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}
			if id != "" {
				fields = append(fields, zap.String("request_id", id))
			}

			err := next(c)

			fields = append(fields, zap.Int("status", res.Status), zap.Duration("latency", time.Since(start)))
			if err != nil {
				log.Error("Handler error", append(fields, zap.Error(err))...)
				return err
			}
			switch n := res.Status; {
			case n >= http.StatusInternalServerError:
				log.Error("Server error", fields...)
			case n >= http.StatusBadRequest:
				log.Warn("Client error", fields...)
			default:
				log.Info("Success", fields...)
			}
			return nil
		}
	}
}

// AuthMiddleware проверяет bearer-токен и кладет ID игрока в контекст.
// allowQueryToken разрешает передать токен параметром ?token=, браузер
// не умеет ставить заголовки при открытии WebSocket.
func AuthMiddleware(verifier auth.TokenVerifier, log *zap.Logger, allowQueryToken bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := log.With(zap.String("path", req.URL.Path))

			tokenString, err := bearerToken(req.Header.Get(echo.HeaderAuthorization))
			if err != nil && allowQueryToken && c.QueryParam("token") != "" {
				tokenString, err = c.QueryParam("token"), nil
			}
			if err != nil {
				l.Warn("Missing or malformed credentials", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, APIError{Message: "Unauthorized: " + err.Error(), Code: "unauthorized"})
			}

			claims, err := verifier.VerifyToken(req.Context(), tokenString)
			if err != nil {
				msg := "Unauthorized: Invalid token"
				switch {
				case errors.Is(err, models.ErrTokenExpired):
					msg = "Unauthorized: Token expired"
				case errors.Is(err, models.ErrTokenMalformed), errors.Is(err, models.ErrTokenInvalid):
				default:
					l.Error("Unexpected token verification error", zap.Error(err))
					return c.JSON(http.StatusInternalServerError, APIError{Message: "Internal server error during token verification"})
				}
				return c.JSON(http.StatusUnauthorized, APIError{Message: msg, Code: "unauthorized"})
			}

			c.Set(string(models.UserContextKey), claims.UserID)
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), models.UserContextKey, claims.UserID)))
			return next(c)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing token")
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", errors.New("malformed token header")
	}
	return parts[1], nil
}

// playerID достает ID игрока, положенный AuthMiddleware.
func playerID(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(string(models.UserContextKey)).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, models.ErrUnauthorized
	}
	return id, nil
}

// requestValidator подключает validator/v10 к echo.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", models.ErrBadRequest, strings.Join(msgs, ", "))
		}
		return fmt.Errorf("%w: %v", models.ErrBadRequest, err)
	}
	return nil
}

// bindAndValidate разбирает тело запроса и проверяет его.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid request body", models.ErrBadRequest)
	}
	return c.Validate(req)
}
