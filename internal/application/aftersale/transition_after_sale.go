package aftersale

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/mall-admin/internal/domain/aftersale"
	"github.com/xiebiao/mall-admin/internal/domain/tx"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
	"github.com/xiebiao/mall-admin/pkg/metrics"
	"github.com/xiebiao/mall-admin/pkg/mq"
)

// TransitionAfterSaleUseCase 售后状态流转用例
// 审核通过/拒绝/开始处理/完成/取消共用一条流转路径
type TransitionAfterSaleUseCase struct {
	afterSaleRepo aftersale.Repository
	txManager     tx.Manager
	publisher     *mq.Publisher
}

// NewTransitionAfterSaleUseCase 创建售后流转用例
func NewTransitionAfterSaleUseCase(
	afterSaleRepo aftersale.Repository,
	txManager tx.Manager,
	publisher *mq.Publisher,
) *TransitionAfterSaleUseCase {
	return &TransitionAfterSaleUseCase{
		afterSaleRepo: afterSaleRepo,
		txManager:     txManager,
		publisher:     publisher,
	}
}

// TransitionAfterSaleRequest 售后流转请求DTO
type TransitionAfterSaleRequest struct {
	AfterSaleID uint
	Target      string // 目标状态
	ActorID     uint
	IsSuperuser bool
	Operator    string

	RejectReason string              // 拒绝时必填
	CancelReason string              // 取消时填写
	RefundAmount int64               // 完成时填写(分),0表示按明细金额退
	Logistics    aftersale.Logistics // 退/换货进入处理中时填写
	Remark       string
}

// TransitionAfterSaleResponse 售后流转响应DTO
type TransitionAfterSaleResponse struct {
	AfterSaleID  uint   `json:"after_sale_id"`
	From         string `json:"from"`
	To           string `json:"to"`
	RefundAmount int64  `json:"refund_amount,omitempty"`
	UpdatedAt    string `json:"updated_at"`
}

// Execute 执行售后状态流转
// 权限规则:
// - 审核通过/拒绝/开始处理/完成是后台管理操作,仅超级管理员可用
// - 取消可由申请人自己发起(超级管理员也可代为取消)
func (uc *TransitionAfterSaleUseCase) Execute(ctx context.Context, req TransitionAfterSaleRequest) (*TransitionAfterSaleResponse, error) {
	target, ok := aftersale.ParseStatus(req.Target)
	if !ok {
		return nil, aftersale.ErrUnknownStatus
	}

	if req.RefundAmount < 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "退款金额不能为负数")
	}

	var (
		result *aftersale.AfterSale
		from   aftersale.Status
	)
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		a, err := uc.afterSaleRepo.FindByID(txCtx, req.AfterSaleID)
		if err != nil {
			return err
		}

		switch target {
		case aftersale.StatusApproved, aftersale.StatusRejected,
			aftersale.StatusProcessing, aftersale.StatusCompleted:
			if !req.IsSuperuser {
				return apperrors.ErrForbidden
			}
		case aftersale.StatusCancelled:
			if !req.IsSuperuser && !a.IsOwnedBy(req.ActorID) {
				return apperrors.ErrForbidden
			}
		}

		from = a.Status
		now := time.Now()

		switch target {
		case aftersale.StatusApproved:
			err = a.Approve(now)
		case aftersale.StatusRejected:
			if req.RejectReason == "" {
				return apperrors.New(apperrors.ErrCodeInvalidParams, "拒绝原因不能为空")
			}
			err = a.Reject(req.RejectReason, now)
		case aftersale.StatusProcessing:
			err = a.StartProcessing(req.Logistics, now)
		case aftersale.StatusCompleted:
			refund := req.RefundAmount
			if refund == 0 {
				refund = defaultRefundAmount(a)
			}
			err = a.Complete(refund, now)
		case aftersale.StatusCancelled:
			err = a.Cancel(req.CancelReason, now)
		default:
			// pending不是任何状态的合法目标
			err = aftersale.ErrInvalidStatusTransition
		}
		if err != nil {
			return err
		}

		if err := uc.afterSaleRepo.UpdateStatus(txCtx, a, from); err != nil {
			return err
		}

		updateLog := &aftersale.AfterSaleLog{
			AfterSaleID: a.ID,
			Action:      "update",
			Operator:    req.Operator,
			Remark:      req.Remark,
			Extra: map[string]interface{}{
				"from": from.String(),
				"to":   target.String(),
			},
			CreatedAt: now,
		}
		if err := uc.afterSaleRepo.AppendLog(txCtx, updateLog); err != nil {
			return err
		}

		result = a
		return nil
	})
	if err != nil {
		metrics.AfterSaleTransitionsTotal.WithLabelValues(string(target), "failure").Inc()
		return nil, err
	}
	metrics.AfterSaleTransitionsTotal.WithLabelValues(string(target), "success").Inc()

	event := mq.AfterSaleStatusChangedEvent{
		AfterSaleID:  result.ID,
		From:         from.String(),
		To:           target.String(),
		Operator:     req.Operator,
		RefundAmount: result.RefundAmount,
	}
	if err := uc.publisher.Publish(ctx, mq.RoutingKeyAfterSaleChanged, event); err != nil {
		log.Printf("发布售后状态变更事件失败: %v", err)
	}

	return &TransitionAfterSaleResponse{
		AfterSaleID:  result.ID,
		From:         from.String(),
		To:           target.String(),
		RefundAmount: result.RefundAmount,
		UpdatedAt:    result.UpdatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// defaultRefundAmount 未指定退款金额时按明细金额合计退
func defaultRefundAmount(a *aftersale.AfterSale) int64 {
	var total int64
	for _, item := range a.Items {
		total += item.RefundAmount
	}
	return total
}
