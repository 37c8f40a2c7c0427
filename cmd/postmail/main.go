package main

import (
	"log"

	"postmail/internal/config"
	"postmail/internal/database"
	"postmail/internal/handlers"
	"postmail/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// 加载环境变量 - 优先加载.env.local，然后是.env
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("Warning: No .env file found, using system environment variables")
		} else {
			log.Println("Loaded configuration from .env file")
		}
	} else {
		log.Println("Loaded configuration from .env.local file")
	}

	// 初始化配置
	cfg := config.Load()

	// 初始化数据库
	db, err := database.Initialize(cfg.Database.Path, cfg.Database.MigrationsPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	// 设置Gin模式
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由器
	router := gin.New()

	// 添加中间件
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// 初始化处理器
	h := handlers.New(db, cfg)

	// 设置路由
	setupRoutes(router, h)

	// 启动服务器
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("Postmail server starting on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRoutes 显式路由表：每个(verb, path)映射到一个处理函数
func setupRoutes(router *gin.Engine, h *handlers.Handler) {
	// 健康检查
	router.GET("/health", h.HealthCheck)

	// 认证路由
	auth := router.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/signin", h.Signin)
		auth.POST("/validate-token", h.ValidateToken)
		auth.POST("/refresh", h.Refresh)
	}

	// 邮件路由（需要认证）
	emails := router.Group("/emails")
	emails.Use(h.AuthRequired())
	{
		emails.GET("/list/all", h.ListEmails)
		emails.POST("/list/create", h.CreateEmail)
		emails.GET("/list/sender/:email", h.ListEmailsBySender)
		emails.GET("/list/recipient/:email", h.ListEmailsByRecipient)
		emails.GET("/list/status/:value", h.ListEmailsByStatus)

		emails.GET("/detail/:id", h.GetEmail)
		emails.PUT("/detail/:id", h.UpdateEmail)
		emails.DELETE("/detail/:id", h.DeleteEmail)

		emails.PUT("/status/read/:id", h.MarkEmailAsRead)

		// 文件夹-邮件关联
		emails.GET("/folders/:folder_id", h.ListEmailsInFolder)
		emails.POST("/folders", h.AddEmailToFolder)
		emails.DELETE("/folders/:folder_id/:email_id", h.RemoveEmailFromFolder)
	}

	// 文件夹路由（需要认证）
	folders := router.Group("/folders")
	folders.Use(h.AuthRequired())
	{
		folders.GET("", h.ListFolders)
		folders.POST("", h.CreateFolder)
		folders.DELETE("/:id", h.DeleteFolder)
	}
}
