package memory

import (
	"context"
	"sort"

	"github.com/xiebiao/mall-admin/internal/domain/product"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
)

// ProductRepository 商品仓储内存实现
type ProductRepository struct {
	store *Store
}

// NewProductRepository 创建商品仓储
func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

// Seed 预置商品数据（测试/演示用）
func (r *ProductRepository) Seed(products ...*product.Product) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, p := range products {
		if p.ID == 0 {
			p.ID = r.store.genID("products")
		}
		clone := *p
		clone.SKUs = make([]product.SKU, len(p.SKUs))
		copy(clone.SKUs, p.SKUs)
		for i := range clone.SKUs {
			if clone.SKUs[i].ID == 0 {
				clone.SKUs[i].ID = r.store.genID("product_skus")
			}
			clone.SKUs[i].ProductID = clone.ID
			sku := clone.SKUs[i]
			r.store.skus[sku.ID] = &sku
		}
		r.store.products[clone.ID] = &clone
		p.SKUs = clone.SKUs
	}
}

// FindByID 根据ID查找商品
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	defer r.store.lock(ctx)()

	stored, ok := r.store.products[id]
	if !ok {
		return nil, apperrors.ErrProductNotFound
	}
	clone := *stored
	clone.SKUs = make([]product.SKU, len(stored.SKUs))
	copy(clone.SKUs, stored.SKUs)
	return &clone, nil
}

// FindSKUByID 根据ID查找SKU
func (r *ProductRepository) FindSKUByID(ctx context.Context, skuID uint) (*product.SKU, error) {
	defer r.store.lock(ctx)()

	stored, ok := r.store.skus[skuID]
	if !ok {
		return nil, apperrors.ErrSKUNotFound
	}
	sku := *stored
	return &sku, nil
}

// ListAll 查询全部商品（ID正序）
func (r *ProductRepository) ListAll(ctx context.Context) ([]*product.Product, error) {
	defer r.store.lock(ctx)()

	result := make([]*product.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		clone := *p
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// CountAll 商品总数
func (r *ProductRepository) CountAll(ctx context.Context) (int64, error) {
	defer r.store.lock(ctx)()
	return int64(len(r.store.products)), nil
}
