package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/quka-ai/course-console/app/core"
)

// HttpSrv HTTP服务结构
type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
	// Ctx 服务生命周期，后台轮询使用，不随单个请求结束
	Ctx context.Context
}
