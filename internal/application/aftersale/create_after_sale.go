package aftersale

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/xiebiao/mall-admin/internal/domain/aftersale"
	"github.com/xiebiao/mall-admin/internal/domain/order"
	"github.com/xiebiao/mall-admin/internal/domain/tx"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
	"github.com/xiebiao/mall-admin/pkg/metrics"
	"github.com/xiebiao/mall-admin/pkg/mq"
)

// afterSaleableStatuses 允许发起售后的订单状态
var afterSaleableStatuses = map[order.Status]bool{
	order.StatusPaid:      true,
	order.StatusShipped:   true,
	order.StatusCompleted: true,
}

// CreateAfterSaleUseCase 创建售后申请用例
// 教学要点:排他不变式的实现
//
// 不变式:同一订单商品上同一时刻至多一条进行中的售后单
// 错误实现:先SELECT检查再INSERT
//   两个并发请求都在对方INSERT前完成检查,各自通过,产生两条
//   进行中的售后单(check-then-act竞态)
// 正确实现:悲观锁串行化
//  1. SELECT ... FOR UPDATE锁定订单商品行
//  2. 检查该商品上是否已有进行中的售后单
//  3. 插入售后单
//  4. COMMIT释放锁
//  并发请求在步骤1排队,后到者在前者提交后才能检查,必然看到
//  已插入的记录,恰好一个成功
type CreateAfterSaleUseCase struct {
	afterSaleRepo aftersale.Repository
	orderRepo     order.Repository
	txManager     tx.Manager
	publisher     *mq.Publisher
}

// NewCreateAfterSaleUseCase 创建售后申请用例
func NewCreateAfterSaleUseCase(
	afterSaleRepo aftersale.Repository,
	orderRepo order.Repository,
	txManager tx.Manager,
	publisher *mq.Publisher,
) *CreateAfterSaleUseCase {
	return &CreateAfterSaleUseCase{
		afterSaleRepo: afterSaleRepo,
		orderRepo:     orderRepo,
		txManager:     txManager,
		publisher:     publisher,
	}
}

// CreateAfterSaleRequest 售后申请请求DTO
type CreateAfterSaleRequest struct {
	OrderID     uint
	OrderItemID uint
	UserID      uint // 申请人(从JWT中提取)
	IsSuperuser bool
	Operator    string
	Type        string // refund/return/exchange
	Reason      string
	Description string
}

// CreateAfterSaleResponse 售后申请响应DTO
type CreateAfterSaleResponse struct {
	AfterSaleID uint   `json:"after_sale_id"`
	OrderID     uint   `json:"order_id"`
	OrderItemID uint   `json:"order_item_id"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// Execute 执行售后申请
func (uc *CreateAfterSaleUseCase) Execute(ctx context.Context, req CreateAfterSaleRequest) (*CreateAfterSaleResponse, error) {
	typ, ok := aftersale.ParseType(req.Type)
	if !ok {
		return nil, aftersale.ErrUnknownType
	}
	if req.Reason == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "售后原因不能为空")
	}

	var result *aftersale.AfterSale
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.FindByID(txCtx, req.OrderID)
		if err != nil {
			return err
		}
		if !req.IsSuperuser && !o.IsOwnedBy(req.UserID) {
			return apperrors.ErrForbidden
		}
		if !afterSaleableStatuses[o.Status] {
			return apperrors.Newf(apperrors.ErrCodeBusinessError, "订单状态「%s」不支持售后", o.Status)
		}

		// ========================================
		// 步骤1:锁定订单商品行(悲观锁,排他检查的前提)
		// ========================================
		item, err := uc.orderRepo.LockItemByID(txCtx, req.OrderItemID)
		if err != nil {
			return err
		}
		if item.OrderID != req.OrderID {
			return aftersale.ErrItemNotInOrder
		}

		// ========================================
		// 步骤2:排他检查(必须在锁定后进行)
		// ========================================
		exists, err := uc.afterSaleRepo.ExistsActive(txCtx, item.ID)
		if err != nil {
			return err
		}
		if exists {
			return aftersale.ErrActiveAfterSaleExists
		}

		// ========================================
		// 步骤3:创建售后单(明细取整行商品,金额为行小计)
		// ========================================
		now := time.Now()
		items := []aftersale.AfterSaleItem{
			{
				ProductID:    item.ProductID,
				SKUID:        item.SKUID,
				Quantity:     item.Quantity,
				Price:        item.Price,
				RefundAmount: item.TotalAmount,
				Reason:       req.Reason,
				CreatedAt:    now,
			},
		}
		a := aftersale.NewAfterSale(req.OrderID, req.OrderItemID, req.UserID, typ, req.Reason, req.Description, items)
		if err := uc.afterSaleRepo.Create(txCtx, a); err != nil {
			return err
		}

		// ========================================
		// 步骤4:追加审计日志(同事务)
		// ========================================
		createLog := &aftersale.AfterSaleLog{
			AfterSaleID: a.ID,
			Action:      "create",
			Operator:    req.Operator,
			Extra: map[string]interface{}{
				"type":   typ,
				"status": a.Status.String(),
			},
			CreatedAt: now,
		}
		if err := uc.afterSaleRepo.AppendLog(txCtx, createLog); err != nil {
			return err
		}

		result = a
		return nil
	})
	if err != nil {
		if errors.Is(err, aftersale.ErrActiveAfterSaleExists) {
			metrics.AfterSaleConflictsTotal.Inc()
		}
		return nil, err
	}

	metrics.AfterSalesCreatedTotal.Inc()
	event := mq.AfterSaleCreatedEvent{
		AfterSaleID: result.ID,
		OrderID:     result.OrderID,
		OrderItemID: result.OrderItemID,
		UserID:      result.UserID,
		Type:        string(result.Type),
	}
	if err := uc.publisher.Publish(ctx, mq.RoutingKeyAfterSaleCreated, event); err != nil {
		log.Printf("发布售后创建事件失败: %v", err)
	}

	return &CreateAfterSaleResponse{
		AfterSaleID: result.ID,
		OrderID:     result.OrderID,
		OrderItemID: result.OrderItemID,
		Type:        string(result.Type),
		Status:      result.Status.String(),
		CreatedAt:   result.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
