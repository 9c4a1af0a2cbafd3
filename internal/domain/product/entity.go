package product

import (
	"time"
)

// Status 商品状态
type Status string

const (
	StatusDraft   Status = "draft"    // 草稿
	StatusOnSale  Status = "on_sale"  // 在售
	StatusOffSale Status = "off_sale" // 下架
)

// Product 商品实体
// 订单核心只读取商品：createOrder校验商品存在且在售，并把名称/主图
// 快照进订单明细；统计任务遍历商品生成排行。商品的增删改由
// 后台商品管理模块负责，不在本聚合内
type Product struct {
	ID          uint
	Name        string
	Description string
	Price       int64 // 展示价(分)，实际成交价以SKU为准
	MainImage   string
	Status      Status
	IsActive    bool
	SKUs        []SKU
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Purchasable 是否可下单
func (p *Product) Purchasable() bool {
	return p.IsActive && p.Status == StatusOnSale
}

// SKU 商品SKU
type SKU struct {
	ID         uint
	ProductID  uint
	Code       string
	Name       string
	Price      int64             // SKU价格(分)
	Attributes map[string]string // SKU属性（颜色、尺码等）
	IsActive   bool
	CreatedAt  time.Time
}
