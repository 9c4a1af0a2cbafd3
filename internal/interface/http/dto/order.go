package dto

import (
	"time"

	"github.com/xiebiao/mall-admin/internal/domain/order"
)

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Items    []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Receiver ReceiverRequest          `json:"receiver" binding:"required"`
	Remark   string                   `json:"remark" binding:"max=500"`
}

// CreateOrderItemRequest 订单明细项
type CreateOrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	SKUID     uint `json:"sku_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=999"`
}

// ReceiverRequest 收货信息
type ReceiverRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Phone    string `json:"phone" binding:"required,max=20"`
	Province string `json:"province" binding:"required,max=50"`
	City     string `json:"city" binding:"required,max=50"`
	District string `json:"district" binding:"required,max=50"`
	Address  string `json:"address" binding:"required,max=200"`
	Zip      string `json:"zip" binding:"max=20"`
}

// CreateOrderResponse 创建订单响应
type CreateOrderResponse struct {
	OrderID         uint   `json:"order_id"`
	OrderNo         string `json:"order_no"`
	TotalAmount     int64  `json:"total_amount"`
	TotalAmountYuan string `json:"total_amount_yuan"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}

// TransitionOrderRequest 订单状态流转请求
type TransitionOrderRequest struct {
	Status        string `json:"status" binding:"required"` // 目标状态
	PaymentMethod string `json:"payment_method" binding:"max=50"`
	CancelReason  string `json:"cancel_reason" binding:"max=200"`
	Remark        string `json:"remark" binding:"max=500"`
}

// OrderItemView 订单明细视图
type OrderItemView struct {
	ID            uint              `json:"id"`
	ProductID     uint              `json:"product_id"`
	SKUID         uint              `json:"sku_id"`
	ProductName   string            `json:"product_name"`
	SKUName       string            `json:"sku_name"`
	ProductImage  string            `json:"product_image,omitempty"`
	SKUAttributes map[string]string `json:"sku_attributes,omitempty"`
	Quantity      int               `json:"quantity"`
	Price         int64             `json:"price"`
	TotalAmount   int64             `json:"total_amount"`
}

// OrderView 订单视图
type OrderView struct {
	ID          uint   `json:"id"`
	OrderNo     string `json:"order_no"`
	UserID      uint   `json:"user_id"`
	TotalAmount int64  `json:"total_amount"`
	Status      string `json:"status"`

	PaymentMethod  string `json:"payment_method,omitempty"`
	PaymentTime    string `json:"payment_time,omitempty"`
	ShippingTime   string `json:"shipping_time,omitempty"`
	CompletionTime string `json:"completion_time,omitempty"`
	CancelTime     string `json:"cancel_time,omitempty"`
	CancelReason   string `json:"cancel_reason,omitempty"`

	ReceiverName     string `json:"receiver_name"`
	ReceiverPhone    string `json:"receiver_phone"`
	ReceiverProvince string `json:"receiver_province"`
	ReceiverCity     string `json:"receiver_city"`
	ReceiverDistrict string `json:"receiver_district"`
	ReceiverAddress  string `json:"receiver_address"`
	ReceiverZip      string `json:"receiver_zip,omitempty"`

	Remark string          `json:"remark,omitempty"`
	Items  []OrderItemView `json:"items"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// OrderListResponse 订单列表响应
type OrderListResponse struct {
	Total int64       `json:"total"`
	Items []OrderView `json:"items"`
}

// OrderLogView 订单日志视图
type OrderLogView struct {
	ID        uint                   `json:"id"`
	Action    string                 `json:"action"`
	Operator  string                 `json:"operator,omitempty"`
	Remark    string                 `json:"remark,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
	CreatedAt string                 `json:"created_at"`
}

// FromOrder 领域实体 → 订单视图
func FromOrder(o *order.Order) OrderView {
	items := make([]OrderItemView, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemView{
			ID:            item.ID,
			ProductID:     item.ProductID,
			SKUID:         item.SKUID,
			ProductName:   item.ProductName,
			SKUName:       item.SKUName,
			ProductImage:  item.ProductImage,
			SKUAttributes: item.SKUAttributes,
			Quantity:      item.Quantity,
			Price:         item.Price,
			TotalAmount:   item.TotalAmount,
		}
	}

	return OrderView{
		ID:               o.ID,
		OrderNo:          o.OrderNo,
		UserID:           o.UserID,
		TotalAmount:      o.TotalAmount,
		Status:           o.Status.String(),
		PaymentMethod:    o.PaymentMethod,
		PaymentTime:      formatTime(o.PaymentTime),
		ShippingTime:     formatTime(o.ShippingTime),
		CompletionTime:   formatTime(o.CompletionTime),
		CancelTime:       formatTime(o.CancelTime),
		CancelReason:     o.CancelReason,
		ReceiverName:     o.ReceiverName,
		ReceiverPhone:    o.ReceiverPhone,
		ReceiverProvince: o.ReceiverProvince,
		ReceiverCity:     o.ReceiverCity,
		ReceiverDistrict: o.ReceiverDistrict,
		ReceiverAddress:  o.ReceiverAddress,
		ReceiverZip:      o.ReceiverZip,
		Remark:           o.Remark,
		Items:            items,
		CreatedAt:        o.CreatedAt.Format(timeLayout),
		UpdatedAt:        o.UpdatedAt.Format(timeLayout),
	}
}

// FromOrderLog 领域实体 → 日志视图
func FromOrderLog(log *order.OrderLog) OrderLogView {
	return OrderLogView{
		ID:        log.ID,
		Action:    log.Action,
		Operator:  log.Operator,
		Remark:    log.Remark,
		Extra:     log.Extra,
		CreatedAt: log.CreatedAt.Format(timeLayout),
	}
}

// timeLayout 统一的时间展示格式
const timeLayout = "2006-01-02 15:04:05"

// formatTime 可空时间格式化（nil返回空串，JSON里省略）
func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}
