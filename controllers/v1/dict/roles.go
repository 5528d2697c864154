package dict

import (
	"raci-approval-backend/controllers"
	apimodels "raci-approval-backend/models/api"
	dictapimodels "raci-approval-backend/models/api/dict"

	"github.com/gofiber/fiber/v2"
)

type roleDictApiController struct {
	controllers.BaseAPIController
}

func InitRoleDictApiRouters(app *fiber.App) {
	controller := roleDictApiController{}
	app.Route("role", func(router fiber.Router) {
		router.Get("list", controller.list)
	})
	app.Route("raci_role", func(router fiber.Router) {
		router.Get("list", controller.raciList)
	})
}

// @Summary Список ролей
// @Tags Справочник. Роли
// @Description Роли пользователей
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.RoleView}
// @Failure 403
// @router /api/v1/dict/role/list [get]
func (c *roleDictApiController) list(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(dictapimodels.GetRoles()))
}

// @Summary Роли матрицы RACI
// @Tags Справочник. Роли
// @Description Роли матрицы в порядке колонок
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.RoleView}
// @Failure 403
// @router /api/v1/dict/raci_role/list [get]
func (c *roleDictApiController) raciList(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(dictapimodels.GetRaciRoles()))
}
