package order

import (
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrOrderItemNotFound 订单商品不存在
	ErrOrderItemNotFound = apperrors.New(apperrors.ErrCodeOrderItemNotFound, "订单商品不存在")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidTransition, "订单状态不允许此操作")

	// ErrStatusConflict 并发状态变更冲突（乐观更新未命中）
	ErrStatusConflict = apperrors.New(apperrors.ErrCodeConflict, "订单状态已变更，请刷新后重试")

	// ErrOrderNoDuplicate 订单号重复（唯一索引冲突）
	ErrOrderNoDuplicate = apperrors.New(apperrors.ErrCodeConflict, "订单号生成冲突")

	// ErrInvalidOrderItems 订单明细不合法
	ErrInvalidOrderItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrUnknownStatus 未知的订单状态
	ErrUnknownStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "未知的订单状态")
)
