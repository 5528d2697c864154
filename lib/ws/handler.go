package ws

import (
	wsclient "raci-approval-backend/lib/ws/client"
	connectionhub "raci-approval-backend/lib/ws/hub/connection-hub"
	"raci-approval-backend/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func InitWs(router fiber.Router) {
	router.Use("", func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		ctx.Locals("userID", middleware.GetUserID(ctx))
		return ctx.Next()
	})
	router.Get("/", websocket.New(supportHandler))
}

// @Summary Уведомления о согласовании
// @Tags Websocket
// @Description Статусы мероприятий и запросы на согласование
// @Param   Authorization		header		string		true		"Authorization token"
// @Success 200 {object} wsmodels.ServerMessage
// @Failure 400
// @Failure 403
// @Failure 500
// @router /ws [get]
func supportHandler(c *websocket.Conn) {
	userID, _ := c.Locals("userID").(uint)
	client := wsclient.NewClient(userID, c)
	connectionhub.Instance.AddClient(userID, c)
	defer func() {
		connectionhub.Instance.DeleteClient(userID)
	}()
	client.Dispatch()
}
