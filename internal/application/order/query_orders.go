package order

import (
	"context"

	"github.com/xiebiao/mall-admin/internal/domain/order"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
)

// 分页默认值与上限
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// QueryOrdersUseCase 订单查询用例(纯读,不开事务)
// 权限范围:普通用户只能看到自己的订单,超级管理员可以看到全部
type QueryOrdersUseCase struct {
	orderRepo order.Repository
}

// NewQueryOrdersUseCase 创建订单查询用例
func NewQueryOrdersUseCase(orderRepo order.Repository) *QueryOrdersUseCase {
	return &QueryOrdersUseCase{orderRepo: orderRepo}
}

// GetOrder 查询订单详情
func (uc *QueryOrdersUseCase) GetOrder(ctx context.Context, orderID, actorID uint, isSuperuser bool) (*order.Order, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isSuperuser && !o.IsOwnedBy(actorID) {
		return nil, apperrors.ErrForbidden
	}
	return o, nil
}

// ListOrdersRequest 订单列表请求DTO
type ListOrdersRequest struct {
	ActorID     uint
	IsSuperuser bool
	UserID      uint   // 超级管理员可按用户过滤
	Status      string // 空表示不过滤
	Skip        int
	Limit       int
}

// ListOrders 查询订单列表
func (uc *QueryOrdersUseCase) ListOrders(ctx context.Context, req ListOrdersRequest) ([]*order.Order, int64, error) {
	filter := order.ListFilter{
		UserID: req.UserID,
		Skip:   req.Skip,
		Limit:  normalizeLimit(req.Limit),
	}

	// 普通用户强制只看自己的订单
	if !req.IsSuperuser {
		filter.UserID = req.ActorID
	}

	if req.Status != "" {
		status, ok := order.ParseStatus(req.Status)
		if !ok {
			return nil, 0, order.ErrUnknownStatus
		}
		filter.Status = status
	}

	return uc.orderRepo.List(ctx, filter)
}

// ListOrderLogs 查询订单操作日志
func (uc *QueryOrdersUseCase) ListOrderLogs(ctx context.Context, orderID, actorID uint, isSuperuser bool, skip, limit int) ([]*order.OrderLog, error) {
	// 先做所有权校验,再查日志
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isSuperuser && !o.IsOwnedBy(actorID) {
		return nil, apperrors.ErrForbidden
	}

	return uc.orderRepo.ListLogs(ctx, orderID, skip, normalizeLimit(limit))
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
