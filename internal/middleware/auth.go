package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/repository"
	"github.com/noah-isme/aegis-admin-api/internal/token"
	"github.com/noah-isme/aegis-admin-api/internal/utils"
)

// AuthUser is the resolved identity attached to authenticated requests.
type AuthUser struct {
	ID          uint
	Email       string
	Name        string
	Role        models.Role
	Permissions models.PermissionList
}

const authUserKey = "auth_user"

// Authenticate verifies the bearer token and loads the live account behind
// it. Role and permissions come from the stored account, not the token, so
// a permission edit or deactivation takes effect on the next request.
func Authenticate(tokens *token.Manager, accounts repository.AccountRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get("Authorization"))
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "access token required")
		}

		const bearer = "bearer "
		if len(authorization) <= len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims, err := tokens.Parse(strings.TrimSpace(authorization[len(bearer):]))
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				return utils.SendError(c, fiber.StatusUnauthorized, "token expired, please log in again")
			}
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		account, err := accounts.FindByID(c.UserContext(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.SendError(c, fiber.StatusUnauthorized, "user not found")
			}
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to resolve user")
		}
		if !account.IsActive {
			return utils.SendError(c, fiber.StatusUnauthorized, "user account is inactive")
		}

		user := AuthUser{
			ID:          account.ID,
			Email:       account.Email,
			Name:        account.Name,
			Role:        account.Role,
			Permissions: account.Permissions,
		}
		c.Locals(authUserKey, user)
		c.Locals("user_id", user.ID)
		c.Locals("user_role", string(user.Role))

		return c.Next()
	}
}

// CurrentUser returns the identity resolved by Authenticate.
func CurrentUser(c *fiber.Ctx) (AuthUser, bool) {
	user, ok := c.Locals(authUserKey).(AuthUser)
	return user, ok
}
