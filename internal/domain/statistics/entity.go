package statistics

import (
	"time"
)

// SalesTrend 销售趋势（每日一行）
// 不变式：每个自然日至多一行，由sales_trends.date唯一索引保证；
// 统计任务重复执行同一天时以"已存在即跳过"处理
type SalesTrend struct {
	ID           uint
	Date         time.Time // 统计日期（当日零点）
	SalesAmount  int64     // 当日销售额(分)，只计paid/shipped/completed订单
	OrderCount   int64     // 当日创建的订单数
	UserCount    int64     // 当日新增用户数
	ProductCount int64     // 商品总数（统计时点）
	RefundCount  int64     // 当日完成的退款数
	RefundAmount int64     // 当日完成的退款金额(分)
	CreatedAt    time.Time
}

// ProductRanking 商品排行（每个商品每日一行）
// 不变式：(product_id, date)至多一行，由复合唯一索引保证
type ProductRanking struct {
	ID            uint
	ProductID     uint
	Date          time.Time // 统计日期（当日零点）
	SalesAmount   int64     // 当日销售额(分)
	SalesCount    int64     // 当日销量
	ViewCount     int64     // 浏览量（由前台埋点另行统计）
	FavoriteCount int64     // 收藏量
	CartCount     int64     // 加购量
	Ranking       int       // 名次：按销售额降序，并列时按商品ID升序
	CreatedAt     time.Time
}

// Dashboard 仪表盘快照
// 每次请求实时计算，不做缓存；"今日"以服务进程时区的零点为界
type Dashboard struct {
	TotalSales        int64 `json:"total_sales"`         // 累计销售额(分)
	TotalOrders       int64 `json:"total_orders"`        // 累计订单数
	TotalUsers        int64 `json:"total_users"`         // 累计用户数
	TotalProducts     int64 `json:"total_products"`      // 商品总数
	TotalRefunds      int64 `json:"total_refunds"`       // 累计退款数
	TotalRefundAmount int64 `json:"total_refund_amount"` // 累计退款金额(分)

	TodaySales        int64 `json:"today_sales"`
	TodayOrders       int64 `json:"today_orders"`
	TodayUsers        int64 `json:"today_users"`
	TodayRefunds      int64 `json:"today_refunds"`
	TodayRefundAmount int64 `json:"today_refund_amount"`
}

// BeginningOfDay 返回t所在自然日的零点（使用t自身的时区）
// 统计边界说明：源数据的"当天"以服务进程本地时区为准，与数据库
// 连接的loc配置保持一致；部署时两者必须设置为同一时区
func BeginningOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
