package app

import (
	"github.com/vishnucprasad/gotodo-server/internal/auth"
	"github.com/vishnucprasad/gotodo-server/internal/cache"
	"github.com/vishnucprasad/gotodo-server/internal/config"
	"github.com/vishnucprasad/gotodo-server/internal/handlers"
	"github.com/vishnucprasad/gotodo-server/internal/repo"
	"github.com/vishnucprasad/gotodo-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) error {
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

	api := r.Group("/api/v1")

	issuer := auth.NewIssuer(
		cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL.Duration(), cfg.Auth.RefreshTTL.Duration(),
	)

	userRepo := repo.NewPGUserRepo(db)
	userSvc, err := service.NewUserService(userRepo, issuer)
	if err != nil {
		return err
	}
	authHandler := handlers.NewAuthHandler(userSvc)
	registerAuthRoutes(api, authHandler, issuer)

	protected := api.Group("", auth.RequireAccessToken(issuer))

	categoryRepo := repo.NewPGCategoryRepo(db)
	categorySvc := service.NewCategoryService(categoryRepo)
	categoryHandler := handlers.NewCategoryHandler(categorySvc)
	registerCategoryRoutes(protected, categoryHandler)

	todoRepo := repo.NewPGTodoRepo(db)
	todoCache := cache.NewTodoCache(rdb, cfg.Redis.DefaultTTL.Duration())
	todoSvc := service.NewTodoService(todoRepo, categoryRepo, todoCache)
	todoHandler := handlers.NewTodoHandler(todoSvc)
	registerTodoRoutes(protected, todoHandler)

	return nil
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
			"api":     "/api/v1",
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

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler, issuer *auth.Issuer) {
	api.POST("/auth/local/signup", h.Signup)
	api.POST("/auth/local/signin", h.Signin)
	api.POST("/auth/refresh", auth.RequireRefreshToken(issuer), h.Refresh)

	user := api.Group("", auth.RequireAccessToken(issuer))
	user.GET("/auth/user", h.GetUser)
	user.PATCH("/auth/user/edit", h.EditUser)
	user.PATCH("/auth/user/password", h.ChangePassword)
	user.DELETE("/auth/signout", h.Signout)
}

func registerCategoryRoutes(api *gin.RouterGroup, h *handlers.CategoryHandler) {
	api.GET("/category/all", h.List)
	api.GET("/category/:id", h.GetByID)
	api.POST("/category/create", h.Create)
	api.PATCH("/category/:id", h.Update)
	api.DELETE("/category/:id", h.Delete)
}

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.GET("/todo/all", h.List)
	api.GET("/todo/:id", h.GetByID)
	api.POST("/todo/create", h.Create)
	api.PATCH("/todo/status/:id", h.ChangeStatus)
	api.PATCH("/todo/:id", h.Update)
	api.DELETE("/todo/:id", h.Delete)
}
