package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Slothdemon22/CampusMinus/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		errorHandlingMiddleware(handler.logger),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	api := router.Group("/api/v1")
	{
		api.GET("/questions", handler.ListQuestions)
		api.GET("/questions/trending", handler.TrendingSearches)
		api.GET("/questions/:id", handler.GetQuestion)
		api.POST("/questions/search", handler.SearchQuestions)

		authed := api.Group("", authMiddleware(cfg.Auth.JWTSecret))
		{
			authed.POST("/questions", handler.AskQuestion)
			authed.PUT("/questions/:id", handler.UpdateQuestion)
			authed.DELETE("/questions/:id", handler.DeleteQuestion)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
