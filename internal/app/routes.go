package app

import (
	"todoapi/internal/auth"
	"todoapi/internal/cache"
	"todoapi/internal/config"
	"todoapi/internal/handlers"
	"todoapi/internal/repo"
	"todoapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TTL.Duration())

	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo, tokens)
	authHandler := handlers.NewAuthHandler(userSvc)
	registerAuthRoutes(r, authHandler)

	todoRepo := repo.NewPGTodoRepo(db)
	todoCache := cache.NewTodoCache(rdb, cfg.Redis.DefaultTTL.Duration())
	todoSvc := service.NewTodoService(todoRepo, todoCache)
	todoHandler := handlers.NewTodoHandler(todoSvc)

	protected := r.Group("", auth.RequireAuth(tokens))
	registerTodoRoutes(protected, todoHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Todo API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTodoRoutes(g *gin.RouterGroup, h *handlers.TodoHandler) {
	g.GET("/todos/dashboard", h.Dashboard)
	g.POST("/todos", h.Create)
	g.GET("/todos", h.List)
	g.GET("/todos/:id", h.GetByID)
	g.PUT("/todos/:id", h.Update)
	g.DELETE("/todos/:id", h.Delete)
	g.PATCH("/todos/:id/toggle", h.Toggle)
}

func registerAuthRoutes(r *gin.Engine, h *handlers.AuthHandler) {
	r.POST("/auth/login", h.Login)
	r.POST("/auth/register", h.Register)
}
