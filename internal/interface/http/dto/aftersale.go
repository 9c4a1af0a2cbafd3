package dto

import (
	"github.com/xiebiao/mall-admin/internal/domain/aftersale"
)

// CreateAfterSaleRequest 售后申请请求
type CreateAfterSaleRequest struct {
	OrderID     uint   `json:"order_id" binding:"required"`
	OrderItemID uint   `json:"order_item_id" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=refund return exchange"`
	Reason      string `json:"reason" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
}

// CreateAfterSaleResponse 售后申请响应
type CreateAfterSaleResponse struct {
	AfterSaleID uint   `json:"after_sale_id"`
	OrderID     uint   `json:"order_id"`
	OrderItemID uint   `json:"order_item_id"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// TransitionAfterSaleRequest 售后状态流转请求
type TransitionAfterSaleRequest struct {
	Status       string `json:"status" binding:"required"` // 目标状态
	RejectReason string `json:"reject_reason" binding:"max=200"`
	CancelReason string `json:"cancel_reason" binding:"max=200"`
	RefundAmount int64  `json:"refund_amount" binding:"min=0"` // 分,0表示按明细金额退
	TrackingNo   string `json:"tracking_no" binding:"max=50"`
	Company      string `json:"company" binding:"max=50"`
	Remark       string `json:"remark" binding:"max=500"`
}

// AfterSaleItemView 售后明细视图
type AfterSaleItemView struct {
	ID           uint   `json:"id"`
	ProductID    uint   `json:"product_id"`
	SKUID        uint   `json:"sku_id"`
	Quantity     int    `json:"quantity"`
	Price        int64  `json:"price"`
	RefundAmount int64  `json:"refund_amount"`
	Reason       string `json:"reason,omitempty"`
}

// AfterSaleView 售后单视图
type AfterSaleView struct {
	ID          uint   `json:"id"`
	OrderID     uint   `json:"order_id"`
	OrderItemID uint   `json:"order_item_id"`
	UserID      uint   `json:"user_id"`
	Type        string `json:"type"`
	Reason      string `json:"reason"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`

	RefundAmount int64  `json:"refund_amount"`
	RefundTime   string `json:"refund_time,omitempty"`
	RejectReason string `json:"reject_reason,omitempty"`
	RejectTime   string `json:"reject_time,omitempty"`
	CompleteTime string `json:"complete_time,omitempty"`
	CancelTime   string `json:"cancel_time,omitempty"`
	CancelReason string `json:"cancel_reason,omitempty"`

	ReturnTrackingNo   string `json:"return_tracking_no,omitempty"`
	ReturnCompany      string `json:"return_company,omitempty"`
	ReturnTime         string `json:"return_time,omitempty"`
	ExchangeTrackingNo string `json:"exchange_tracking_no,omitempty"`
	ExchangeCompany    string `json:"exchange_company,omitempty"`
	ExchangeTime       string `json:"exchange_time,omitempty"`

	Items     []AfterSaleItemView `json:"items"`
	CreatedAt string              `json:"created_at"`
	UpdatedAt string              `json:"updated_at"`
}

// AfterSaleListResponse 售后列表响应
type AfterSaleListResponse struct {
	Total int64           `json:"total"`
	Items []AfterSaleView `json:"items"`
}

// AfterSaleLogView 售后日志视图
type AfterSaleLogView struct {
	ID        uint                   `json:"id"`
	Action    string                 `json:"action"`
	Operator  string                 `json:"operator,omitempty"`
	Remark    string                 `json:"remark,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
	CreatedAt string                 `json:"created_at"`
}

// FromAfterSale 领域实体 → 售后视图
func FromAfterSale(a *aftersale.AfterSale) AfterSaleView {
	items := make([]AfterSaleItemView, len(a.Items))
	for i, item := range a.Items {
		items[i] = AfterSaleItemView{
			ID:           item.ID,
			ProductID:    item.ProductID,
			SKUID:        item.SKUID,
			Quantity:     item.Quantity,
			Price:        item.Price,
			RefundAmount: item.RefundAmount,
			Reason:       item.Reason,
		}
	}

	return AfterSaleView{
		ID:                 a.ID,
		OrderID:            a.OrderID,
		OrderItemID:        a.OrderItemID,
		UserID:             a.UserID,
		Type:               string(a.Type),
		Reason:             a.Reason,
		Description:        a.Description,
		Status:             a.Status.String(),
		RefundAmount:       a.RefundAmount,
		RefundTime:         formatTime(a.RefundTime),
		RejectReason:       a.RejectReason,
		RejectTime:         formatTime(a.RejectTime),
		CompleteTime:       formatTime(a.CompleteTime),
		CancelTime:         formatTime(a.CancelTime),
		CancelReason:       a.CancelReason,
		ReturnTrackingNo:   a.ReturnTrackingNo,
		ReturnCompany:      a.ReturnCompany,
		ReturnTime:         formatTime(a.ReturnTime),
		ExchangeTrackingNo: a.ExchangeTrackingNo,
		ExchangeCompany:    a.ExchangeCompany,
		ExchangeTime:       formatTime(a.ExchangeTime),
		Items:              items,
		CreatedAt:          a.CreatedAt.Format(timeLayout),
		UpdatedAt:          a.UpdatedAt.Format(timeLayout),
	}
}

// FromAfterSaleLog 领域实体 → 日志视图
func FromAfterSaleLog(log *aftersale.AfterSaleLog) AfterSaleLogView {
	return AfterSaleLogView{
		ID:        log.ID,
		Action:    log.Action,
		Operator:  log.Operator,
		Remark:    log.Remark,
		Extra:     log.Extra,
		CreatedAt: log.CreatedAt.Format(timeLayout),
	}
}
