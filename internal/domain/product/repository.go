package product

import (
	"context"
)

// Repository 商品仓储接口（订单/统计核心只需要读取）
type Repository interface {
	// FindByID 根据ID查找商品
	FindByID(ctx context.Context, id uint) (*Product, error)

	// FindSKUByID 根据ID查找SKU
	FindSKUByID(ctx context.Context, skuID uint) (*SKU, error)

	// ListAll 查询全部商品（统计任务的排行生成需要遍历所有商品）
	ListAll(ctx context.Context) ([]*Product, error)

	// CountAll 商品总数
	CountAll(ctx context.Context) (int64, error)
}
