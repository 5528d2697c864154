package middleware

import (
	"net/http/httptest"
	"raci-approval-backend/config"
	"raci-approval-backend/lib/rbac"
	authutils "raci-approval-backend/lib/utils/auth-utils"
	"raci-approval-backend/models"
	dbmodels "raci-approval-backend/models/db"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	conf := &config.Configuration{}
	conf.Auth.JWTSecret = "middleware-secret"
	conf.Auth.JWTExpireInSec = 60
	conf.Auth.JWTRefreshExpireInSec = 120
	config.Conf = conf
	rbac.NewHandler(nil)

	app := fiber.New()
	app.Use(AuthorizationRequired())
	app.Use(RbacMiddleware())
	app.Post("/api/v1/dict/employee", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/api/v1/auth/me", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"id":         GetUserID(c),
			"department": GetUserDepartment(c),
			"role":       GetUserRole(c),
		})
	})
	return app
}

func token(t *testing.T, role models.UserRole) string {
	user := dbmodels.Employee{Role: role}
	user.ID = 4
	user.DepartmentID = 2
	tokenString, err := authutils.GetToken(user)
	require.NoError(t, err)
	return "Bearer " + tokenString
}

func TestAuthorization(t *testing.T) {
	app := newTestApp(t)

	t.Run("no token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/auth/me", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("claims available to handlers", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", token(t, models.EmployeeRole))
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("rbac rejects role", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/dict/employee", nil)
		req.Header.Set("Authorization", token(t, models.HodRole))
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("rbac allows admin", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/dict/employee", nil)
		req.Header.Set("Authorization", token(t, models.AdminRole))
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestBodyLimit(t *testing.T) {
	app := fiber.New()
	app.Use(WithBodyLimit(8))
	app.Post("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/", strings.NewReader("small")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/", strings.NewReader("too large body")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
}
