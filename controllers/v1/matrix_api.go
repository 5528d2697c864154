package apiv1

import (
	"raci-approval-backend/controllers"
	eventhandler "raci-approval-backend/lib/event"
	"raci-approval-backend/middleware"
	apimodels "raci-approval-backend/models/api"
	raciapimodels "raci-approval-backend/models/api/raci"

	"github.com/gofiber/fiber/v2"
)

type matrixApiController struct {
	controllers.BaseAPIController
}

func InitMatrixApiRouters(app *fiber.App) {
	controller := matrixApiController{}
	app.Route(":id", func(router fiber.Router) {
		router.Get("matrix", controller.get)
		router.Put("matrix", controller.save)
		router.Post("matrix/validate", controller.validate)
		router.Post("submit", controller.submit)
		router.Get("approval_matrix", controller.approvalMatrix)
		router.Get("approval_history", controller.history)
		router.Get("export", controller.export)
	})
}

// @Summary Матрица RACI
// @Tags Матрица RACI
// @Description Сохраненная матрица, пул сотрудников и финансовые лимиты
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "event ID"
// @Success 200 {object} apimodels.Response{data=raciapimodels.MatrixView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/matrix [get]
func (c *matrixApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := eventhandler.Instance.GetMatrix(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения матрицы")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Сохранение матрицы
// @Tags Матрица RACI
// @Description Сохранение назначений и лимитов. Нарушения возвращаются списком в data
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 raciapimodels.MatrixPayload	true	"request body"
// @Param   id          		path    int  				    	true         "event ID"
// @Success 200 {object} apimodels.Response{data=raciapimodels.MatrixView}
// @Failure 400 {object} apimodels.Response{data=[]raci.Violation}
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/matrix [put]
func (c *matrixApiController) save(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload raciapimodels.MatrixPayload
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := eventhandler.Instance.SaveMatrix(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Матрица не прошла проверку")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Проверка выбора
// @Tags Матрица RACI
// @Description Проверка выбора из сессии редактирования без сохранения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 raciapimodels.SessionData	true	"request body"
// @Param   id          		path    int  				    	true         "event ID"
// @Success 200 {object} apimodels.Response{data=raciapimodels.MatrixView}
// @Failure 400 {object} apimodels.Response{data=[]raci.Violation}
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/matrix/validate [post]
func (c *matrixApiController) validate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload raciapimodels.SessionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := eventhandler.Instance.ValidateMatrix(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Матрица не прошла проверку")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary На согласование
// @Tags Матрица RACI
// @Description Отправка матрицы на согласование руководителям подразделения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 raciapimodels.SubmitData	true	"request body"
// @Param   id          		path    int  				    	true         "event ID"
// @Success 200 {object} apimodels.Response{data=raciapimodels.SubmitResult}
// @Failure 400 {object} apimodels.Response{data=raci.SubmissionRejectedError}
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/submit [post]
func (c *matrixApiController) submit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload raciapimodels.SubmitData
	if len(ctx.Body()) > 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := eventhandler.Instance.Submit(ctx.UserContext(), id, middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отправки на согласование")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Матрица согласования
// @Tags Матрица RACI
// @Description Задачи с назначениями и состоянием согласования
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "event ID"
// @Success 200 {object} apimodels.Response{data=raciapimodels.ApprovalMatrixView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/approval_matrix [get]
func (c *matrixApiController) approvalMatrix(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := eventhandler.Instance.BuildMatrixView(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения матрицы согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary История согласования
// @Tags Матрица RACI
// @Description История отправок и решений
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "event ID"
// @Success 200 {object} apimodels.Response{data=[]raciapimodels.ApprovalHistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/approval_history [get]
func (c *matrixApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := eventhandler.Instance.History(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения истории согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Выгрузка
// @Tags Матрица RACI
// @Description Выгрузка матрицы согласования в xlsx или pdf
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "event ID"
// @Param	format				query 	string							false		 "xlsx (по умолчанию) или pdf"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/export [get]
func (c *matrixApiController) export(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	format, err := eventhandler.ParseExportFormat(ctx.Query("format"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	fileName, body, err := eventhandler.Instance.Export(id, format)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки матрицы")
	}
	return sendAttachment(ctx, fileName, format.ContentType(), body)
}
