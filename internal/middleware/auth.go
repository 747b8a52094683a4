package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/apperr"
	"github.com/shopfluence/backend/internal/auth"
	"github.com/shopfluence/backend/internal/config"
	"github.com/shopfluence/backend/internal/rbac"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

// TokenFrom returns the session token from the session cookie or a Bearer header.
func TokenFrom(c *fiber.Ctx, cookieName string) string {
	if tok := c.Cookies(cookieName); tok != "" {
		return tok
	}
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func AuthMiddleware(cfg *config.Config, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := TokenFrom(c, cfg.SessionCookieName)
		if tokenStr == "" {
			return apperr.New(apperr.KindUnauthenticated, "authentication required")
		}

		claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.Error(err))
			return apperr.New(apperr.KindUnauthenticated, "invalid or expired session")
		}

		c.Locals(CtxUserID, claims.UserID)
		c.Locals(CtxEmail, claims.Email)
		return c.Next()
	}
}

func GetUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(CtxUserID).(uuid.UUID)
	return id
}

// RoleResolver reports the effective profile role of a user.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID uuid.UUID) (string, error)
}

// RequirePermission rejects callers whose role lacks permission.
func RequirePermission(roles RoleResolver, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := roles.RoleOf(c.UserContext(), GetUserID(c))
		if err != nil {
			return err
		}
		if !rbac.HasPermission(role, permission) {
			return apperr.Permission("%s permission required", permission)
		}
		return c.Next()
	}
}
