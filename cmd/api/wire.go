//go:build wireinject
// +build wireinject

// Wire依赖注入定义
// 修改后执行: cd cmd/api && wire
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

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
)

// infrastructureSet 基础设施层
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
	provideJWTManager,
	provideSessionStore,
	provideMQPublisher,
)

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	mysql.NewTxManager,
	mysql.NewUserRepository,
	mysql.NewProductRepository,
	mysql.NewOrderRepository,
	mysql.NewAfterSaleRepository,
	mysql.NewStatisticsRepository,
)

// domainSet 领域层
var domainSet = wire.NewSet(
	user.NewService,
)

// applicationSet 应用层
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	apporder.NewCreateOrderUseCase,
	apporder.NewTransitionOrderUseCase,
	apporder.NewQueryOrdersUseCase,
	appaftersale.NewCreateAfterSaleUseCase,
	appaftersale.NewTransitionAfterSaleUseCase,
	appaftersale.NewQueryAfterSalesUseCase,
	appstatistics.NewRunDailyStatsUseCase,
	appstatistics.NewDashboardUseCase,
	appstatistics.NewQueryStatisticsUseCase,
)

// handlerSet 接口层
var handlerSet = wire.NewSet(
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewOrderHandler,
	handler.NewAfterSaleHandler,
	handler.NewStatisticsHandler,
)

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideMQPublisher MQ未启用时返回nil，事件发布降级为空操作
func provideMQPublisher(cfg *config.Config) (*mq.Publisher, error) {
	if !cfg.MQ.Enabled {
		return nil, nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
}

func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	orderHandler *handler.OrderHandler,
	afterSaleHandler *handler.AfterSaleHandler,
	statisticsHandler *handler.StatisticsHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.InitMetrics()

	r := gin.Default()
	r.Use(middleware.Metrics())
	registerRoutes(r, userHandler, orderHandler, afterSaleHandler, statisticsHandler, authMiddleware)
	return r
}

// InitializeApp Wire入口：组装完整的HTTP应用
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
