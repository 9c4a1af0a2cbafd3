package aftersale

import (
	"context"

	"github.com/xiebiao/mall-admin/internal/domain/aftersale"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
)

// 分页默认值与上限
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// QueryAfterSalesUseCase 售后查询用例(纯读,不开事务)
type QueryAfterSalesUseCase struct {
	afterSaleRepo aftersale.Repository
}

// NewQueryAfterSalesUseCase 创建售后查询用例
func NewQueryAfterSalesUseCase(afterSaleRepo aftersale.Repository) *QueryAfterSalesUseCase {
	return &QueryAfterSalesUseCase{afterSaleRepo: afterSaleRepo}
}

// GetAfterSale 查询售后详情
func (uc *QueryAfterSalesUseCase) GetAfterSale(ctx context.Context, afterSaleID, actorID uint, isSuperuser bool) (*aftersale.AfterSale, error) {
	a, err := uc.afterSaleRepo.FindByID(ctx, afterSaleID)
	if err != nil {
		return nil, err
	}
	if !isSuperuser && !a.IsOwnedBy(actorID) {
		return nil, apperrors.ErrForbidden
	}
	return a, nil
}

// ListAfterSalesRequest 售后列表请求DTO
type ListAfterSalesRequest struct {
	ActorID     uint
	IsSuperuser bool
	UserID      uint   // 超级管理员可按用户过滤
	OrderID     uint   // 按订单过滤
	Status      string // 空表示不过滤
	Type        string // 空表示不过滤
	Skip        int
	Limit       int
}

// ListAfterSales 查询售后列表
func (uc *QueryAfterSalesUseCase) ListAfterSales(ctx context.Context, req ListAfterSalesRequest) ([]*aftersale.AfterSale, int64, error) {
	filter := aftersale.ListFilter{
		UserID:  req.UserID,
		OrderID: req.OrderID,
		Skip:    req.Skip,
		Limit:   normalizeLimit(req.Limit),
	}

	// 普通用户强制只看自己的售后单
	if !req.IsSuperuser {
		filter.UserID = req.ActorID
	}

	if req.Status != "" {
		status, ok := aftersale.ParseStatus(req.Status)
		if !ok {
			return nil, 0, aftersale.ErrUnknownStatus
		}
		filter.Status = status
	}
	if req.Type != "" {
		typ, ok := aftersale.ParseType(req.Type)
		if !ok {
			return nil, 0, aftersale.ErrUnknownType
		}
		filter.Type = typ
	}

	return uc.afterSaleRepo.List(ctx, filter)
}

// ListAfterSaleLogs 查询售后操作日志
func (uc *QueryAfterSalesUseCase) ListAfterSaleLogs(ctx context.Context, afterSaleID, actorID uint, isSuperuser bool, skip, limit int) ([]*aftersale.AfterSaleLog, error) {
	a, err := uc.afterSaleRepo.FindByID(ctx, afterSaleID)
	if err != nil {
		return nil, err
	}
	if !isSuperuser && !a.IsOwnedBy(actorID) {
		return nil, apperrors.ErrForbidden
	}

	return uc.afterSaleRepo.ListLogs(ctx, afterSaleID, skip, normalizeLimit(limit))
}

// normalizeLimit 分页大小归一化(默认20,上限100)
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
