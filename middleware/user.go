package middleware

import (
	authutils "raci-approval-backend/lib/utils/auth-utils"
	"raci-approval-backend/models"

	"github.com/gofiber/fiber/v2"
)

func GetUserID(ctx *fiber.Ctx) uint {
	return authutils.ClaimUint(authutils.GetClaims(ctx), "sub")
}

func GetUserDepartment(ctx *fiber.Ctx) uint {
	return authutils.ClaimUint(authutils.GetClaims(ctx), "department")
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	return authutils.ClaimRole(authutils.GetClaims(ctx))
}
