package dict

import (
	"raci-approval-backend/controllers"
	employeeprovider "raci-approval-backend/lib/dicts/employee"
	apimodels "raci-approval-backend/models/api"
	dictapimodels "raci-approval-backend/models/api/dict"

	"github.com/gofiber/fiber/v2"
)

type employeeDictApiController struct {
	controllers.BaseAPIController
}

func InitEmployeeDictApiRouters(app *fiber.App) {
	controller := employeeDictApiController{}
	app.Route("employee", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Get(":id", controller.get)
	})
}

// @Summary Создание
// @Tags Справочник. Сотрудник
// @Description Создание сотрудника, пароль задается для входа в систему
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 dictapimodels.EmployeeData	true	"request body"
// @Success 200 {object} apimodels.Response{data=int}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/employee [post]
func (c *employeeDictApiController) create(ctx *fiber.Ctx) error {
	var payload dictapimodels.EmployeeData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := employeeprovider.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение по ИД
// @Tags Справочник. Сотрудник
// @Description Получение по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=dictapimodels.EmployeeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/employee/{id} [get]
func (c *employeeDictApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := employeeprovider.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
