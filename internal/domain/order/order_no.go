package order

import (
	"fmt"
	"math/rand"
	"time"
)

// MaxOrderNoRetries 订单号生成冲突的最大重试次数
// 冲突由orders.order_no的唯一索引检测，重试仍冲突则向调用方
// 返回ErrOrderNoDuplicate，绝不静默接受重复订单号
const MaxOrderNoRetries = 3

// GenerateOrderNo 生成订单号
// 教学要点:订单号设计原则
// 1. 全局唯一(唯一索引兜底，冲突时重试)
// 2. 时间有序(便于分库分表)
// 3. 不可预测(防止恶意遍历)
//
// 格式:时间戳(yyyyMMddHHmmss) + 6位随机数
// 示例:20240115103000123456
func GenerateOrderNo() string {
	timestamp := time.Now().Format("20060102150405")
	random := rand.Intn(1000000) // 6位随机数
	return fmt.Sprintf("%s%06d", timestamp, random)
}
