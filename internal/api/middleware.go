package api

import (
	"crypto/subtle"
	stderrors "errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apperrors "github.com/gmsas95/lifetrack/internal/errors"
)

func (s *Server) authMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" {
			return s.fail(c, apperrors.New(apperrors.ErrUnauthorized.Code, "missing authorization header"))
		}

		if err := s.verifyToken(strings.TrimPrefix(auth, "Bearer ")); err != nil {
			return s.fail(c, apperrors.New(apperrors.ErrUnauthorized.Code, "invalid token"))
		}

		return c.Next()
	}
}

func (s *Server) verifyToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Security.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return err
	}
	if !token.Valid {
		return jwt.ErrTokenUnverifiable
	}
	return nil
}

func (s *Server) issueToken(now time.Time) (string, error) {
	ttl := time.Duration(s.config.Security.TokenTTL) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "owner",
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(s.config.Security.JWTSecret))
}

// passwordMatches accepts anything when no admin password is configured
func (s *Server) passwordMatches(password string) bool {
	want := s.config.Security.AdminPassword
	if want == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(want)) == 1
}

func (s *Server) metricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if stderrors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		s.metrics.RecordHTTPRequest(c.Method(), status)
		return err
	}
}

// fail writes an error body with the status mapped from the error code
func (s *Server) fail(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)

	msg := err.Error()
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		msg = appErr.Message
	}
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(status).JSON(errorResponse{Error: msg, Code: apperrors.GetCode(err)})
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if stderrors.As(err, &fe) {
		code := apperrors.ErrInternal.Code
		switch fe.Code {
		case fiber.StatusNotFound:
			code = apperrors.ErrNotFound.Code
		case fiber.StatusBadRequest, fiber.StatusUpgradeRequired, fiber.StatusMethodNotAllowed:
			code = apperrors.ErrBadRequest.Code
		}
		return c.Status(fe.Code).JSON(errorResponse{Error: fe.Message, Code: code})
	}
	return s.fail(c, err)
}
