package controllers

import (
	"raci-approval-backend/fiberlog"
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/middleware"
	apimodels "raci-approval-backend/models/api"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (uint, error) {
	return c.GetUintParam(ctx, "id")
}

func (c *BaseAPIController) GetUintParam(ctx *fiber.Ctx, name string) (uint, error) {
	value, err := strconv.ParseUint(ctx.Params(name), 10, 64)
	if err != nil || value == 0 {
		return 0, errors.Errorf("некорректный идентификатор %v", name)
	}
	return uint(value), nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("request_id", ctx.GetRespHeader(fiberlog.RequestIDHeader)).
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("path", ctx.Path())
}

// SendError доменные ошибки отдаются клиенту с кодом и данными для отображения по полям
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	var violations raci.Violations
	if errors.As(err, &violations) {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewViolations(msg, violations))
	}
	var rejected *raci.SubmissionRejectedError
	if errors.As(err, &rejected) {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewViolations(rejected.Message, rejected))
	}
	var emailMissing *raci.ApproverEmailMissingError
	if errors.As(err, &emailMissing) {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewViolations(emailMissing.Error(), emailMissing))
	}
	var decisionErr *raci.DecisionError
	if errors.As(err, &decisionErr) {
		status := fiber.StatusBadRequest
		switch decisionErr.Code {
		case raci.RecordNotFound:
			status = fiber.StatusNotFound
		case raci.AlreadyDecided:
			status = fiber.StatusConflict
		case raci.NotAssignedApprover:
			status = fiber.StatusForbidden
		}
		return ctx.Status(status).JSON(apimodels.NewViolations(decisionErr.Error(), decisionErr))
	}
	if errors.Is(err, raci.ErrNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
	}
	if errors.Is(err, raci.ErrEventNotEditable) {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	logger.WithError(err).Error(msg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(msg))
}
