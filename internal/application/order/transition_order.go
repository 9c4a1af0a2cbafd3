package order

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/mall-admin/internal/domain/order"
	"github.com/xiebiao/mall-admin/internal/domain/tx"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
	"github.com/xiebiao/mall-admin/pkg/metrics"
	"github.com/xiebiao/mall-admin/pkg/mq"
)

// TransitionOrderUseCase 订单状态流转用例
// 支付/发货/完成/取消/退款共用一条流转路径:
// 领域实体校验流转合法性并落副作用字段,仓储以WHERE status=from
// 乐观更新,审计日志同事务追加
type TransitionOrderUseCase struct {
	orderRepo order.Repository
	txManager tx.Manager
	publisher *mq.Publisher
}

// NewTransitionOrderUseCase 创建订单流转用例
func NewTransitionOrderUseCase(
	orderRepo order.Repository,
	txManager tx.Manager,
	publisher *mq.Publisher,
) *TransitionOrderUseCase {
	return &TransitionOrderUseCase{
		orderRepo: orderRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

// TransitionOrderRequest 订单流转请求DTO
type TransitionOrderRequest struct {
	OrderID     uint
	Target      string // 目标状态
	ActorID     uint   // 操作者用户ID
	IsSuperuser bool   // 超级管理员可操作任意订单
	Operator    string // 操作人(记入审计日志)

	PaymentMethod string // 支付时必填
	CancelReason  string // 取消时填写
	Remark        string // 日志备注
}

// TransitionOrderResponse 订单流转响应DTO
type TransitionOrderResponse struct {
	OrderID   uint   `json:"order_id"`
	OrderNo   string `json:"order_no"`
	From      string `json:"from"`
	To        string `json:"to"`
	UpdatedAt string `json:"updated_at"`
}

// Execute 执行订单状态流转
// 教学要点:两层防护
// 1. 领域层流转表:非法流转(如pending→completed)直接拒绝
// 2. 仓储层乐观更新:WHERE status=from未命中说明并发修改,
//    返回ErrStatusConflict并整体回滚(日志也不会落)
func (uc *TransitionOrderUseCase) Execute(ctx context.Context, req TransitionOrderRequest) (*TransitionOrderResponse, error) {
	target, ok := order.ParseStatus(req.Target)
	if !ok {
		return nil, order.ErrUnknownStatus
	}

	var (
		result *order.Order
		from   order.Status
	)
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.FindByID(txCtx, req.OrderID)
		if err != nil {
			return err
		}

		// 权限:普通用户只能操作自己的订单
		if !req.IsSuperuser && !o.IsOwnedBy(req.ActorID) {
			return apperrors.ErrForbidden
		}

		from = o.Status
		now := time.Now()

		switch target {
		case order.StatusPaid:
			err = o.Pay(req.PaymentMethod, now)
		case order.StatusShipped:
			err = o.Ship(now)
		case order.StatusCompleted:
			err = o.Complete(now)
		case order.StatusCancelled:
			err = o.Cancel(req.CancelReason, now)
		case order.StatusRefunded:
			err = o.Refund(now)
		default:
			// pending不是任何状态的合法目标
			err = order.ErrInvalidStatusTransition
		}
		if err != nil {
			return err
		}

		if err := uc.orderRepo.UpdateStatus(txCtx, o, from); err != nil {
			return err
		}

		updateLog := &order.OrderLog{
			OrderID:  o.ID,
			Action:   "update",
			Operator: req.Operator,
			Remark:   req.Remark,
			Extra: map[string]interface{}{
				"from": from.String(),
				"to":   target.String(),
			},
			CreatedAt: now,
		}
		if err := uc.orderRepo.AppendLog(txCtx, updateLog); err != nil {
			return err
		}

		result = o
		return nil
	})
	if err != nil {
		metrics.OrderTransitionsTotal.WithLabelValues(string(target), "failure").Inc()
		return nil, err
	}
	metrics.OrderTransitionsTotal.WithLabelValues(string(target), "success").Inc()

	event := mq.OrderStatusChangedEvent{
		OrderID:  result.ID,
		OrderNo:  result.OrderNo,
		From:     from.String(),
		To:       target.String(),
		Operator: req.Operator,
	}
	if err := uc.publisher.Publish(ctx, mq.RoutingKeyOrderStatusChanged, event); err != nil {
		log.Printf("发布订单状态变更事件失败: %v", err)
	}

	return &TransitionOrderResponse{
		OrderID:   result.ID,
		OrderNo:   result.OrderNo,
		From:      from.String(),
		To:        target.String(),
		UpdatedAt: result.UpdatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
