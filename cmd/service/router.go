package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quka-ai/course-console/app/core"
	"github.com/quka-ai/course-console/app/response"
	"github.com/quka-ai/course-console/cmd/service/handler"
	"github.com/quka-ai/course-console/cmd/service/middleware"
	"github.com/quka-ai/course-console/pkg/metrics"
)

// serve blocks until ctx is cancelled, then shuts the http server down.
func serve(ctx context.Context, core *core.Core) error {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
		Ctx:    ctx,
	}
	setupHttpRouter(httpSrv)

	srv := &http.Server{
		Addr:    core.Cfg().Serve.Addr,
		Handler: core.HttpEngine(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("status server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupHttpRouter(s *handler.HttpSrv) {
	watchLimit := middleware.UseLimit(1, 5, func(c *gin.Context) string {
		return "watch:" + c.ClientIP()
	})

	s.Engine.Use(gin.Recovery(), middleware.I18n(), response.NewResponse(), middleware.AccessLog)
	s.Engine.Use(middleware.Cors)

	s.Engine.GET("/health", s.Health)
	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	apiV1 := s.Engine.Group("/api/v1")
	{
		sessions := apiV1.Group("/sessions")
		{
			sessions.GET("", s.ListSessions)
			sessions.GET("/:taskid", s.GetSession)
			sessions.POST("/:taskid", watchLimit, s.WatchTask)
			sessions.DELETE("/:taskid", s.StopSession)
		}

		records := apiV1.Group("/records")
		{
			records.GET("", s.ListRecords)
			records.POST("/sync", s.SyncRecords)
			records.GET("/:taskid", s.GetRecord)
		}
	}
}
