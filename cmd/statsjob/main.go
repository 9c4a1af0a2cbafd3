// statsjob 每日统计离线任务
// 由crontab在每天凌晨调度，也可手动指定日期补数:
//
//	statsjob -date 2026-08-28
//
// 任务幂等，重复执行已统计的日期只会跳过，不会产生重复数据。
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	appstatistics "github.com/xiebiao/mall-admin/internal/application/statistics"
	"github.com/xiebiao/mall-admin/internal/infrastructure/config"
	"github.com/xiebiao/mall-admin/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/mall-admin/pkg/metrics"
)

func main() {
	dateFlag := flag.String("date", "", "统计日期(yyyy-MM-dd)，默认昨天")
	timeoutFlag := flag.Duration("timeout", 5*time.Minute, "任务超时时间")
	flag.Parse()

	date := time.Now().AddDate(0, 0, -1)
	if *dateFlag != "" {
		parsed, err := time.ParseInLocation("2006-01-02", *dateFlag, time.Local)
		if err != nil {
			log.Fatalf("日期格式应为yyyy-MM-dd: %v", err)
		}
		date = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	metrics.InitMetrics()

	useCase := appstatistics.NewRunDailyStatsUseCase(
		mysql.NewOrderRepository(db),
		mysql.NewAfterSaleRepository(db),
		mysql.NewUserRepository(db),
		mysql.NewProductRepository(db),
		mysql.NewStatisticsRepository(db),
		mysql.NewTxManager(db),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	result, err := useCase.Execute(ctx, date)
	if err != nil {
		log.Fatalf("每日统计失败 date=%s: %v", date.Format("2006-01-02"), err)
	}

	fmt.Printf("每日统计完成 date=%s\n", result.Date.Format("2006-01-02"))
	fmt.Printf("  - 销售趋势: 新建=%v 销售额=%d分 订单数=%d\n", result.TrendCreated, result.SalesAmount, result.OrderCount)
	fmt.Printf("  - 商品排行: 新建=%v 条数=%d\n", result.RankingsCreated, result.RankingCount)
}
