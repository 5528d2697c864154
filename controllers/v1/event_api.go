package apiv1

import (
	"fmt"
	"raci-approval-backend/controllers"
	eventhandler "raci-approval-backend/lib/event"
	"raci-approval-backend/middleware"
	apimodels "raci-approval-backend/models/api"
	raciapimodels "raci-approval-backend/models/api/raci"

	"github.com/gofiber/fiber/v2"
)

type eventApiController struct {
	controllers.BaseAPIController
}

func InitEventApiRouters(app *fiber.App) {
	controller := eventApiController{}
	app.Post("list", controller.list)
	app.Post("", controller.create)
	app.Route(":id", func(idRoute fiber.Router) {
		idRoute.Get("", controller.get)
		idRoute.Put("", controller.update)
		idRoute.Delete("", controller.delete)
		idRoute.Post("task", controller.addTask)
		idRoute.Put("task/:taskId", controller.updateTask)
		idRoute.Delete("task/:taskId", controller.deleteTask)
		idRoute.Put("employees", controller.attachEmployees)
		idRoute.Get("files", controller.files)
		idRoute.Get("files/:fileId", controller.getFile)
	})
}

// @Summary Список
// @Tags Мероприятие
// @Description Список мероприятий с фильтром
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 raciapimodels.EventFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]raciapimodels.EventView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/list [post]
func (c *eventApiController) list(ctx *fiber.Ctx) error {
	var payload raciapimodels.EventFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := eventhandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка мероприятий")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Создание
// @Tags Мероприятие
// @Description Создание мероприятия в статусе черновик
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 raciapimodels.EventCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=int}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event [post]
func (c *eventApiController) create(ctx *fiber.Ctx) error {
	var payload raciapimodels.EventCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := eventhandler.Instance.Create(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания мероприятия")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение по ИД
// @Tags Мероприятие
// @Description Получение по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=raciapimodels.EventView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id} [get]
func (c *eventApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := eventhandler.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения мероприятия")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Обновление
// @Tags Мероприятие
// @Description Обновление названия и описания
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 raciapimodels.EventEditData	true	"request body"
// @Param   id          		path    int  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id} [put]
func (c *eventApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload raciapimodels.EventEditData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	err = eventhandler.Instance.Update(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления мероприятия")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление
// @Tags Мероприятие
// @Description Удаление
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id} [delete]
func (c *eventApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	err = eventhandler.Instance.Delete(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления мероприятия")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Добавление задачи
// @Tags Мероприятие
// @Description Добавление задачи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 raciapimodels.TaskData	true	"request body"
// @Param   id          		path    int  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=int}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/task [post]
func (c *eventApiController) addTask(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload raciapimodels.TaskData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	taskID, err := eventhandler.Instance.AddTask(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка добавления задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(taskID))
}

// @Summary Обновление задачи
// @Tags Мероприятие
// @Description Обновление задачи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 raciapimodels.TaskData	true	"request body"
// @Param   id          		path    int  				    	true         "rec ID"
// @Param   taskId         		path    int  				    	true         "task ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/task/{taskId} [put]
func (c *eventApiController) updateTask(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	taskID, err := c.GetUintParam(ctx, "taskId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload raciapimodels.TaskData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	err = eventhandler.Instance.UpdateTask(id, taskID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление задачи
// @Tags Мероприятие
// @Description Удаление задачи вместе с назначениями
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "rec ID"
// @Param   taskId         		path    int  				    	true         "task ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/task/{taskId} [delete]
func (c *eventApiController) deleteTask(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	taskID, err := c.GetUintParam(ctx, "taskId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	err = eventhandler.Instance.DeleteTask(id, taskID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Сотрудники мероприятия
// @Tags Мероприятие
// @Description Ограничение списка сотрудников для назначения ролей
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 raciapimodels.EventEmployeesData	true	"request body"
// @Param   id          		path    int  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/employees [put]
func (c *eventApiController) attachEmployees(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload raciapimodels.EventEmployeesData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	err = eventhandler.Instance.AttachEmployees(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сохранения сотрудников мероприятия")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Архив
// @Tags Мероприятие
// @Description Сохраненные копии согласованной матрицы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=[]raciapimodels.FileView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/files [get]
func (c *eventApiController) files(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := eventhandler.Instance.Files(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения архива мероприятия")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Файл архива
// @Tags Мероприятие
// @Description Скачивание сохраненной копии матрицы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "rec ID"
// @Param   fileId         		path    int  				    	true         "file ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/event/{id}/files/{fileId} [get]
func (c *eventApiController) getFile(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileID, err := c.GetUintParam(ctx, "fileId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	fileName, contentType, body, err := eventhandler.Instance.GetFile(ctx.UserContext(), id, fileID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения файла")
	}
	return sendAttachment(ctx, fileName, contentType, body)
}

func sendAttachment(ctx *fiber.Ctx, fileName, contentType string, body []byte) error {
	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return ctx.Status(fiber.StatusOK).Send(body)
}
