package apiv1

import (
	"raci-approval-backend/controllers"
	approvalrecordhandler "raci-approval-backend/lib/approval-record"
	eventhandler "raci-approval-backend/lib/event"
	"raci-approval-backend/middleware"
	"raci-approval-backend/models"
	apimodels "raci-approval-backend/models/api"
	raciapimodels "raci-approval-backend/models/api/raci"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type approvalApiController struct {
	controllers.BaseAPIController
}

func InitApprovalApiRouters(app *fiber.App) {
	controller := approvalApiController{}
	app.Get("inbox", controller.inbox)
	app.Route(":id", func(idRoute fiber.Router) {
		idRoute.Post("approve", controller.approve) // согласовать
		idRoute.Post("reject", controller.reject)   // отклонить
	})
}

// @Summary Входящие
// @Tags Согласование
// @Description Записи согласования текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	state				query 	string							false		 "PENDING (по умолчанию), APPROVED, REJECTED"
// @Success 200 {object} apimodels.Response{data=[]raciapimodels.ApprovalRecordView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approval/inbox [get]
func (c *approvalApiController) inbox(ctx *fiber.Ctx) error {
	state := models.ApprovalState(strings.ToUpper(ctx.Query("state")))
	if state != "" && !state.IsValid() {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("неизвестное состояние согласования"))
	}
	resp, err := approvalrecordhandler.Instance.ListForApprover(middleware.GetUserID(ctx), state)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения записей согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Согласовать
// @Tags Согласование
// @Description Согласование назначения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 raciapimodels.ApproveData	false	"request body"
// @Param   id          		path    int  				    	true         "record ID"
// @Success 200 {object} apimodels.Response{data=raciapimodels.EventView}
// @Failure 400 {object} apimodels.Response{data=raci.DecisionError}
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response{data=raci.DecisionError}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approval/{id}/approve [post]
func (c *approvalApiController) approve(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload raciapimodels.ApproveData
	if len(ctx.Body()) > 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}

	resp, err := eventhandler.Instance.Decide(ctx.UserContext(), id, middleware.GetUserID(ctx), raciapimodels.DecisionData{
		Decision: models.AStateApproved,
		Reason:   payload.Reason,
	})
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Отклонить
// @Tags Согласование
// @Description Отклонение назначения с указанием причины
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 raciapimodels.RejectData	true	"request body"
// @Param   id          		path    int  				    	true         "record ID"
// @Success 200 {object} apimodels.Response{data=raciapimodels.EventView}
// @Failure 400 {object} apimodels.Response{data=raci.DecisionError}
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response{data=raci.DecisionError}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approval/{id}/reject [post]
func (c *approvalApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload raciapimodels.RejectData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := eventhandler.Instance.Decide(ctx.UserContext(), id, middleware.GetUserID(ctx), raciapimodels.DecisionData{
		Decision: models.AStateRejected,
		Reason:   payload.Reason,
	})
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклонения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
