package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appaftersale "github.com/xiebiao/mall-admin/internal/application/aftersale"
	apporder "github.com/xiebiao/mall-admin/internal/application/order"
	appstatistics "github.com/xiebiao/mall-admin/internal/application/statistics"
	appuser "github.com/xiebiao/mall-admin/internal/application/user"
	"github.com/xiebiao/mall-admin/internal/domain/user"
	"github.com/xiebiao/mall-admin/internal/infrastructure/config"
	"github.com/xiebiao/mall-admin/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/mall-admin/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/mall-admin/internal/interface/http/handler"
	"github.com/xiebiao/mall-admin/internal/interface/http/middleware"
	"github.com/xiebiao/mall-admin/pkg/jwt"
	"github.com/xiebiao/mall-admin/pkg/metrics"
	"github.com/xiebiao/mall-admin/pkg/mq"
	"github.com/xiebiao/mall-admin/pkg/response"
)

// @title           商城后台管理API
// @version         1.0
// @description     订单/售后生命周期管理与每日统计
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化基础设施
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// MQ可选：未启用时publisher为nil，事件发布为空操作
	var publisher *mq.Publisher
	if cfg.MQ.Enabled {
		publisher, err = mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Fatalf("初始化MQ失败: %v", err)
		}
		defer publisher.Close()
	}

	metrics.InitMetrics()

	// 3. 依赖注入（手动组装，Wire版本见wire.go）
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	txManager := mysql.NewTxManager(db)
	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	afterSaleRepo := mysql.NewAfterSaleRepository(db)
	statsRepo := mysql.NewStatisticsRepository(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	createOrderUseCase := apporder.NewCreateOrderUseCase(orderRepo, productRepo, txManager, publisher)
	transitionOrderUseCase := apporder.NewTransitionOrderUseCase(orderRepo, txManager, publisher)
	queryOrdersUseCase := apporder.NewQueryOrdersUseCase(orderRepo)
	createAfterSaleUseCase := appaftersale.NewCreateAfterSaleUseCase(afterSaleRepo, orderRepo, txManager, publisher)
	transitionAfterSaleUseCase := appaftersale.NewTransitionAfterSaleUseCase(afterSaleRepo, txManager, publisher)
	queryAfterSalesUseCase := appaftersale.NewQueryAfterSalesUseCase(afterSaleRepo)
	runDailyUseCase := appstatistics.NewRunDailyStatsUseCase(orderRepo, afterSaleRepo, userRepo, productRepo, statsRepo, txManager)
	dashboardUseCase := appstatistics.NewDashboardUseCase(orderRepo, afterSaleRepo, userRepo, productRepo)
	queryStatsUseCase := appstatistics.NewQueryStatisticsUseCase(statsRepo)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase)
	orderHandler := handler.NewOrderHandler(createOrderUseCase, transitionOrderUseCase, queryOrdersUseCase)
	afterSaleHandler := handler.NewAfterSaleHandler(createAfterSaleUseCase, transitionAfterSaleUseCase, queryAfterSalesUseCase)
	statisticsHandler := handler.NewStatisticsHandler(runDailyUseCase, dashboardUseCase, queryStatsUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 4. 初始化Gin引擎并注册路由
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	registerRoutes(r, userHandler, orderHandler, afterSaleHandler, statisticsHandler, authMiddleware)

	// 5. 启动服务（优雅关闭）
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n🚀 服务启动成功！\n")
		fmt.Printf("   访问地址: http://localhost%s\n", addr)
		fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
		fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
		fmt.Printf("   指标采集: http://localhost%s/metrics\n", addr)
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务关闭异常: %v", err)
	}
	log.Println("服务已退出")
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	orderHandler *handler.OrderHandler,
	afterSaleHandler *handler.AfterSaleHandler,
	statisticsHandler *handler.StatisticsHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档（生产环境建议禁用或加访问控制）
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 认证模块（公开接口）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
			auth.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 订单模块（需要登录）
		orders := v1.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id/status", orderHandler.TransitionOrder)
			orders.GET("/:id/logs", orderHandler.ListOrderLogs)
		}

		// 售后模块（需要登录）
		afterSales := v1.Group("/after-sales")
		afterSales.Use(authMiddleware.RequireAuth())
		{
			afterSales.POST("", afterSaleHandler.CreateAfterSale)
			afterSales.GET("", afterSaleHandler.ListAfterSales)
			afterSales.GET("/:id", afterSaleHandler.GetAfterSale)
			afterSales.PUT("/:id/status", afterSaleHandler.TransitionAfterSale)
			afterSales.GET("/:id/logs", afterSaleHandler.ListAfterSaleLogs)
		}

		// 统计模块（仅超级管理员）
		statistics := v1.Group("/statistics")
		statistics.Use(authMiddleware.RequireAuth(), authMiddleware.RequireSuperuser())
		{
			statistics.GET("/dashboard", statisticsHandler.GetDashboard)
			statistics.POST("/run", statisticsHandler.RunDailyStats)
			statistics.GET("/trends", statisticsHandler.ListSalesTrends)
			statistics.GET("/rankings", statisticsHandler.ListProductRankings)
		}
	}
}
