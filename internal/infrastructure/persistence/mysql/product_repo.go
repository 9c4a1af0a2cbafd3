package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/mall-admin/internal/domain/product"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
)

// ProductRepository 商品仓储MySQL实现
// 订单/统计核心只读取商品，这里没有写入方法
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &ProductRepository{db: db}
}

// FindByID 根据ID查找商品(包含SKU)
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	err := getDB(ctx, r.db).Preload("SKUs").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, err
	}
	return toProductEntity(&model), nil
}

// FindSKUByID 根据ID查找SKU
func (r *ProductRepository) FindSKUByID(ctx context.Context, skuID uint) (*product.SKU, error) {
	var model ProductSKUModel
	err := getDB(ctx, r.db).First(&model, skuID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSKUNotFound
		}
		return nil, err
	}
	sku := toSKUEntity(&model)
	return &sku, nil
}

// ListAll 查询全部商品（统计任务遍历用，不分页）
func (r *ProductRepository) ListAll(ctx context.Context) ([]*product.Product, error) {
	var models []ProductModel
	err := getDB(ctx, r.db).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, err
	}

	products := make([]*product.Product, len(models))
	for i := range models {
		products[i] = toProductEntity(&models[i])
	}
	return products, nil
}

// CountAll 商品总数
func (r *ProductRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&ProductModel{}).Count(&count).Error
	return count, err
}

// toProductEntity GORM模型 → 领域实体
func toProductEntity(m *ProductModel) *product.Product {
	skus := make([]product.SKU, len(m.SKUs))
	for i := range m.SKUs {
		skus[i] = toSKUEntity(&m.SKUs[i])
	}

	return &product.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		MainImage:   m.MainImage,
		Status:      product.Status(m.Status),
		IsActive:    m.IsActive,
		SKUs:        skus,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toSKUEntity(m *ProductSKUModel) product.SKU {
	return product.SKU{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Code:       m.Code,
		Name:       m.Name,
		Price:      m.Price,
		Attributes: unmarshalAttributes(m.Attributes),
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
	}
}
