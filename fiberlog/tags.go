package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	TagPid       = "pid"
	TagStatus    = "status"
	TagLatency   = "latency"
	TagMethod    = "method"
	TagPath      = "path"
	TagRoute     = "route"
	TagIP        = "ip"
	TagUserAgent = "user_agent"
	TagBody      = "body"
	TagResBody   = "res_body"
	RequestID    = "request_id"
)

const RequestIDHeader = "X-Request-ID"

// maxBodyLen обрезка тел запроса и ответа в логе
const maxBodyLen = 2048

type data struct {
	pid       int
	start     time.Time
	end       time.Time
	requestID string
}

type FuncTag func(c *fiber.Ctx, d *data) interface{}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(c *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagStatus: func(c *fiber.Ctx, d *data) interface{} {
			return c.Response().StatusCode()
		},
		TagLatency: func(c *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagMethod: func(c *fiber.Ctx, d *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, d *data) interface{} {
			return c.Path()
		},
		TagRoute: func(c *fiber.Ctx, d *data) interface{} {
			return routePath(c)
		},
		TagIP: func(c *fiber.Ctx, d *data) interface{} {
			return c.IP()
		},
		TagUserAgent: func(c *fiber.Ctx, d *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagBody: func(c *fiber.Ctx, d *data) interface{} {
			return cut(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, d *data) interface{} {
			if !isJSON(string(c.Response().Header.ContentType())) {
				return ""
			}
			return cut(c.Response().Body())
		},
		RequestID: func(c *fiber.Ctx, d *data) interface{} {
			return d.requestID
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}

func requestID(c *fiber.Ctx) string {
	if id := c.Get(RequestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}

func routePath(c *fiber.Ctx) string {
	if r := c.Route(); r != nil {
		return r.Path
	}
	return c.Path()
}

func isJSON(contentType string) bool {
	return len(contentType) >= len(fiber.MIMEApplicationJSON) &&
		contentType[:len(fiber.MIMEApplicationJSON)] == fiber.MIMEApplicationJSON
}

func cut(body []byte) string {
	if len(body) > maxBodyLen {
		return string(body[:maxBodyLen]) + "..."
	}
	return string(body)
}
