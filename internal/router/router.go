package router

import (
	"fmt"
	"strings"

	"github.com/catalog-next/internal/cache"
	"github.com/catalog-next/internal/config"
	adminhandlers "github.com/catalog-next/internal/http/handlers/admin"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP engine with all routes and middleware.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "cn"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "слишком много попыток входа",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// Downloaded product media.
	r.Static("/uploads", cfg.Media.UploadDir)

	apiV1 := r.Group("/api/v1")
	{
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), adminHandler.Login)

			authorized := admin.Group("", JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
			{
				authorized.GET("/me", adminHandler.Me)
				authorized.PUT("/password", adminHandler.ChangePassword)

				// Attribute registry
				authorized.GET("/attributes", adminHandler.ListAttributes)
				authorized.GET("/attributes/:id", adminHandler.GetAttribute)
				authorized.POST("/attributes", adminHandler.CreateAttribute)
				authorized.PUT("/attributes/:id", adminHandler.UpdateAttribute)
				authorized.POST("/attributes/import/file", adminHandler.ImportAttributesFile)
				authorized.POST("/attributes/import/clipboard", adminHandler.ImportAttributesClipboard)
				authorized.POST("/attributes/mapping/preview", adminHandler.PreviewMapping)
				authorized.POST("/attributes/mapping/confirm", adminHandler.ConfirmMapping)

				// Catalog tree and schemas
				authorized.GET("/categories", adminHandler.ListCategories)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.GET("/subcategories", adminHandler.ListSubcategories)
				authorized.POST("/subcategories", adminHandler.CreateSubcategory)
				authorized.GET("/subcategories/:id/schema", adminHandler.GetSubcategorySchema)
				authorized.POST("/subcategories/:id/schema", adminHandler.AssignSchemaAttribute)
				authorized.DELETE("/subcategories/:id/schema/:attribute_id", adminHandler.RemoveSchemaAttribute)

				// Products
				authorized.GET("/products", adminHandler.ListProducts)
				authorized.GET("/products/:id", adminHandler.GetProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.PUT("/products/:id/values", adminHandler.SetProductValue)
				authorized.GET("/products/:id/history", adminHandler.GetProductHistory)
				authorized.GET("/products/:id/verifications", adminHandler.GetProductVerifications)
				authorized.GET("/products/:id/media", adminHandler.GetProductMedia)
				authorized.POST("/products/:id/status", adminHandler.TransitionProductStatus)
				authorized.POST("/products/:id/export", adminHandler.ExportProduct)
				authorized.POST("/products/:id/verify", adminHandler.VerifyProduct)
				authorized.GET("/products/:id/verification/latest", adminHandler.GetLatestVerification)
				authorized.POST("/products/:id/media/fetch", adminHandler.FetchProductMedia)

				// Supplier data collection
				authorized.GET("/collection/stats", adminHandler.CollectionStats)
				authorized.GET("/suppliers", adminHandler.ListSuppliers)
				authorized.POST("/suppliers", adminHandler.CreateSupplier)
				authorized.GET("/suppliers/:id", adminHandler.GetSupplier)
				authorized.PUT("/suppliers/:id", adminHandler.UpdateSupplier)
				authorized.GET("/suppliers/:id/requests", adminHandler.ListSupplierRequests)
				authorized.GET("/data-requests", adminHandler.ListDataRequests)
				authorized.POST("/data-requests", adminHandler.CreateDataRequest)
				authorized.GET("/data-requests/:id", adminHandler.GetDataRequest)
				authorized.POST("/data-requests/:id/send", adminHandler.SendDataRequest)
				authorized.POST("/data-requests/:id/received", adminHandler.ReceiveDataRequest)
				authorized.POST("/data-requests/:id/no-response", adminHandler.NoResponseDataRequest)
				authorized.POST("/data-requests/:id/cancel", adminHandler.CancelDataRequest)
				authorized.POST("/data-requests/check-overdue", adminHandler.CheckOverdueDataRequests)

				// Import pipeline
				authorized.POST("/import/:subcategory_id/file", adminHandler.ImportProductsFile)
				authorized.POST("/import/:subcategory_id/clipboard", adminHandler.ImportProductsClipboard)
				authorized.GET("/import/batches", adminHandler.ListImportBatches)
				authorized.GET("/import/batches/:id", adminHandler.GetImportBatch)
				authorized.POST("/import/batches/:id/export", adminHandler.ExportImportBatch)

				// Destructive operations stay with administrators.
				adminOnly := authorized.Group("", AdminOnlyMiddleware())
				{
					adminOnly.DELETE("/attributes/:id", adminHandler.DeleteAttribute)
					adminOnly.DELETE("/products/:id", adminHandler.DeleteProduct)
				}
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
