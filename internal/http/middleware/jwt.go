package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/config"
	"backend-antrian-pst/internal/helper"
	"backend-antrian-pst/internal/http/response"
)

// Locals keys set by the auth middlewares.
const (
	LocalUserID   = "user_id"
	LocalNama     = "nama"
	LocalEmail    = "email"
	LocalRole     = "role"
	LocalLinkUUID = "link_uuid"
)

type StaffTokenValidator interface {
	ValidateToken(tokenString string) (*config.JWTClaims, error)
}

type VisitorFormTokenValidator interface {
	ValidateVisitorFormToken(tokenString string) (*config.VisitorFormClaims, error)
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", apperr.Unauthorized("Header Authorization tidak ada")
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
		return "", apperr.Unauthorized("Format Authorization tidak valid")
	}
	return tokenParts[1], nil
}

// JWTAuth accepts staff session tokens only; visitor form tokens are
// rejected by audience.
func JWTAuth(tokens StaffTokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c)
		if err != nil {
			return response.Error(c, err)
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			return response.Error(c, apperr.Unauthorized("Token tidak valid atau sudah kedaluwarsa"))
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalNama, claims.Nama)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)

		return c.Next()
	}
}

func RoleAuth(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(string)
		if helper.HasRole(role, allowedRoles...) {
			return c.Next()
		}

		return response.Error(c, apperr.Forbidden("Anda tidak memiliki akses ke resource ini"))
	}
}

// VisitorFormAuth guards the self-service submit endpoint with the session
// token handed out when a temp link is opened.
func VisitorFormAuth(tokens VisitorFormTokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c)
		if err != nil {
			return response.Error(c, err)
		}

		claims, err := tokens.ValidateVisitorFormToken(raw)
		if err != nil {
			return response.Error(c, apperr.Unauthorized("Sesi formulir tidak valid atau sudah kedaluwarsa"))
		}

		c.Locals(LocalLinkUUID, claims.LinkUUID)
		return c.Next()
	}
}
