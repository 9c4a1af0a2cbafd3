package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/xiebiao/mall-admin/internal/domain/order"
	"github.com/xiebiao/mall-admin/internal/domain/product"
	"github.com/xiebiao/mall-admin/internal/domain/tx"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
	"github.com/xiebiao/mall-admin/pkg/metrics"
	"github.com/xiebiao/mall-admin/pkg/mq"
)

// CreateOrderUseCase 创建订单用例
// 教学要点:这是整个项目最核心的用例之一
// 涉及:事务处理、价格快照、订单号冲突重试
type CreateOrderUseCase struct {
	orderRepo   order.Repository
	productRepo product.Repository
	txManager   tx.Manager
	publisher   *mq.Publisher

	// genOrderNo 订单号生成函数，测试时可注入固定值制造冲突
	genOrderNo func() string
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	productRepo product.Repository,
	txManager tx.Manager,
	publisher *mq.Publisher,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txManager:   txManager,
		publisher:   publisher,
		genOrderNo:  order.GenerateOrderNo,
	}
}

// CreateOrderRequest 下单请求DTO
type CreateOrderRequest struct {
	UserID   uint              // 买家用户ID(从JWT中提取)
	Operator string            // 操作人(记入审计日志)
	Items    []CreateOrderItem // 订单明细
	Receiver order.Receiver    // 收货信息
	Remark   string            // 订单备注
}

// CreateOrderItem 订单明细项
type CreateOrderItem struct {
	ProductID uint // 商品ID
	SKUID     uint // SKU ID
	Quantity  int  // 购买数量
}

// CreateOrderResponse 下单响应DTO
type CreateOrderResponse struct {
	OrderID         uint   `json:"order_id"`
	OrderNo         string `json:"order_no"`
	TotalAmount     int64  `json:"total_amount"`
	TotalAmountYuan string `json:"total_amount_yuan"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}

// Execute 执行下单用例
// 教学重点:
//
// 1. 价格快照:行金额用"下单时刻数据库中的SKU价格"计算,
//    绝不信任前端传来的金额(防止改价攻击);商品名称/图片/属性
//    一并快照进订单明细,商品后续改动不影响历史订单
//
// 2. 订单号冲突重试:订单号=时间戳+随机数,理论上可能撞号,
//    orders.order_no的唯一索引是最后防线。插入撞号时换号重试,
//    最多MaxOrderNoRetries次,耗尽后把冲突错误抛给调用方,
//    绝不静默接受重复订单号
//
// 3. 总金额不变式:TotalAmount=Σ(单价×数量),由NewOrder工厂计算,
//    表头与明细在同一事务中落库
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	// 1. 参数校验(全部在写入之前完成)
	if len(req.Items) == 0 {
		return nil, order.ErrInvalidOrderItems
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, order.ErrInvalidQuantity
		}
	}
	if req.Receiver.Name == "" || req.Receiver.Phone == "" || req.Receiver.Address == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "收货人信息不完整")
	}

	var result *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:校验商品并构建明细快照
		// ========================================
		now := time.Now()
		orderItems := make([]order.OrderItem, len(req.Items))
		for i, item := range req.Items {
			p, err := uc.productRepo.FindByID(txCtx, item.ProductID)
			if err != nil {
				return err
			}
			if !p.Purchasable() {
				return apperrors.Newf(apperrors.ErrCodeBusinessError, "商品「%s」不在售", p.Name)
			}

			sku, err := uc.productRepo.FindSKUByID(txCtx, item.SKUID)
			if err != nil {
				return err
			}
			if sku.ProductID != item.ProductID {
				return apperrors.New(apperrors.ErrCodeInvalidParams, "SKU不属于该商品")
			}
			if !sku.IsActive {
				return apperrors.Newf(apperrors.ErrCodeBusinessError, "SKU「%s」已停用", sku.Name)
			}

			// 价格与商品信息快照
			orderItems[i] = order.OrderItem{
				ProductID:     item.ProductID,
				SKUID:         item.SKUID,
				ProductName:   p.Name,
				SKUName:       sku.Name,
				ProductImage:  p.MainImage,
				SKUAttributes: sku.Attributes,
				Quantity:      item.Quantity,
				Price:         sku.Price, // 使用数据库中的当前价格
				TotalAmount:   sku.Price * int64(item.Quantity),
				CreatedAt:     now,
			}
		}

		// ========================================
		// 步骤2:创建订单(订单号冲突时换号重试)
		// ========================================
		var created *order.Order
		for attempt := 0; attempt < order.MaxOrderNoRetries; attempt++ {
			o := order.NewOrder(uc.genOrderNo(), req.UserID, req.Receiver, orderItems, req.Remark)
			err := uc.orderRepo.Create(txCtx, o)
			if err == nil {
				created = o
				break
			}
			if !errors.Is(err, order.ErrOrderNoDuplicate) {
				return err
			}
			// 撞号,换号重试
		}
		if created == nil {
			return order.ErrOrderNoDuplicate
		}

		// ========================================
		// 步骤3:追加审计日志(同事务,失败则整体回滚)
		// ========================================
		createLog := &order.OrderLog{
			OrderID:  created.ID,
			Action:   "create",
			Operator: req.Operator,
			Extra: map[string]interface{}{
				"order_no":     created.OrderNo,
				"total_amount": created.TotalAmount,
				"status":       created.Status.String(),
			},
			CreatedAt: now,
		}
		if err := uc.orderRepo.AppendLog(txCtx, createLog); err != nil {
			return err
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 事务提交后的副作用:指标与事件通知,失败不影响已提交的数据
	metrics.OrdersCreatedTotal.Inc()
	event := mq.OrderCreatedEvent{
		OrderID:     result.ID,
		OrderNo:     result.OrderNo,
		UserID:      result.UserID,
		TotalAmount: result.TotalAmount,
		CreatedAt:   result.CreatedAt.Format(time.RFC3339),
	}
	if err := uc.publisher.Publish(ctx, mq.RoutingKeyOrderCreated, event); err != nil {
		log.Printf("发布订单创建事件失败: %v", err)
	}

	return &CreateOrderResponse{
		OrderID:         result.ID,
		OrderNo:         result.OrderNo,
		TotalAmount:     result.TotalAmount,
		TotalAmountYuan: formatPrice(result.TotalAmount),
		Status:          result.Status.String(),
		CreatedAt:       result.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}
