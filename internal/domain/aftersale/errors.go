package aftersale

import (
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
)

// 售后领域错误定义
var (
	// ErrAfterSaleNotFound 售后单不存在
	ErrAfterSaleNotFound = apperrors.New(apperrors.ErrCodeAfterSaleNotFound, "售后单不存在")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidTransition, "售后状态不允许此操作")

	// ErrStatusConflict 并发状态变更冲突
	ErrStatusConflict = apperrors.New(apperrors.ErrCodeConflict, "售后状态已变更，请刷新后重试")

	// ErrActiveAfterSaleExists 同一订单商品上已存在进行中的售后申请
	ErrActiveAfterSaleExists = apperrors.New(apperrors.ErrCodeConflict, "该订单商品已存在进行中的售后申请")

	// ErrItemNotInOrder 订单商品不属于该订单
	ErrItemNotInOrder = apperrors.New(apperrors.ErrCodeInvalidParams, "订单商品不属于该订单")

	// ErrUnknownType 未知的售后类型
	ErrUnknownType = apperrors.New(apperrors.ErrCodeInvalidParams, "未知的售后类型")

	// ErrUnknownStatus 未知的售后状态
	ErrUnknownStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "未知的售后状态")
)
