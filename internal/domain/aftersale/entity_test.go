package aftersale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAfterSaleTransitions 测试售后状态机流转表
func TestAfterSaleTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		// pending出发：审核通过/拒绝，或申请人自己取消
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusProcessing, false}, // 不能跳过审核
		{StatusPending, StatusCompleted, false},

		// approved出发
		{StatusApproved, StatusProcessing, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusCompleted, false},
		{StatusApproved, StatusRejected, false}, // 通过后不能再拒绝

		// processing出发：只能走到完成
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusCancelled, false},

		// 终态
		{StatusRejected, StatusApproved, false},
		{StatusCompleted, StatusProcessing, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tc := range cases {
		a := &AfterSale{Status: tc.from}
		err := a.TransitionTo(tc.to, time.Now())
		if tc.allowed {
			assert.NoError(t, err, "%s→%s 应该成功", tc.from, tc.to)
		} else {
			assert.ErrorIs(t, err, ErrInvalidStatusTransition, "%s→%s 应该被拒绝", tc.from, tc.to)
			assert.Equal(t, tc.from, a.Status, "非法流转不应该改变状态")
		}
	}
}

// TestActiveStatuses 测试进行中状态集合与终态判断一致
func TestActiveStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]Status{StatusPending, StatusApproved, StatusProcessing},
		ActiveStatuses)

	for _, s := range ActiveStatuses {
		assert.True(t, s.IsActive(), "%s 应该是进行中状态", s)
	}
	assert.False(t, StatusRejected.IsActive())
	assert.False(t, StatusCompleted.IsActive())
	assert.False(t, StatusCancelled.IsActive())
}

// TestParseType 测试售后类型解析
func TestParseType(t *testing.T) {
	for _, s := range []string{"refund", "return", "exchange"} {
		typ, ok := ParseType(s)
		assert.True(t, ok)
		assert.Equal(t, Type(s), typ)
	}

	_, ok := ParseType("repair")
	assert.False(t, ok, "未知类型应该解析失败")
}

// TestNewAfterSale 测试售后工厂方法
func TestNewAfterSale(t *testing.T) {
	items := []AfterSaleItem{{ProductID: 1, SKUID: 2, Quantity: 1, Price: 8900, RefundAmount: 8900}}
	a := NewAfterSale(10, 20, 30, TypeRefund, "商品损坏", "收到时已破损", items)

	assert.Equal(t, StatusPending, a.Status, "新售后单初始状态应该是pending")
	assert.Equal(t, uint(10), a.OrderID)
	assert.Equal(t, uint(20), a.OrderItemID)
	assert.Equal(t, uint(30), a.UserID)
	assert.Len(t, a.Items, 1)
}

// TestReject 测试拒绝的副作用字段
func TestReject(t *testing.T) {
	a := &AfterSale{Status: StatusPending}
	now := time.Now()

	require.NoError(t, a.Reject("超出售后期限", now))
	assert.Equal(t, StatusRejected, a.Status)
	assert.Equal(t, "超出售后期限", a.RejectReason)
	require.NotNil(t, a.RejectTime)
}

// TestStartProcessing 测试物流信息按类型落库
func TestStartProcessing(t *testing.T) {
	logistics := Logistics{TrackingNo: "SF1234567890", Company: "顺丰"}

	t.Run("退货记录退货物流", func(t *testing.T) {
		a := &AfterSale{Status: StatusApproved, Type: TypeReturn}
		require.NoError(t, a.StartProcessing(logistics, time.Now()))
		assert.Equal(t, "SF1234567890", a.ReturnTrackingNo)
		assert.Equal(t, "顺丰", a.ReturnCompany)
		require.NotNil(t, a.ReturnTime)
		assert.Empty(t, a.ExchangeTrackingNo)
	})

	t.Run("换货记录换货物流", func(t *testing.T) {
		a := &AfterSale{Status: StatusApproved, Type: TypeExchange}
		require.NoError(t, a.StartProcessing(logistics, time.Now()))
		assert.Equal(t, "SF1234567890", a.ExchangeTrackingNo)
		require.NotNil(t, a.ExchangeTime)
		assert.Empty(t, a.ReturnTrackingNo)
	})

	t.Run("退款不记录物流", func(t *testing.T) {
		a := &AfterSale{Status: StatusApproved, Type: TypeRefund}
		require.NoError(t, a.StartProcessing(logistics, time.Now()))
		assert.Empty(t, a.ReturnTrackingNo)
		assert.Empty(t, a.ExchangeTrackingNo)
	})
}

// TestComplete 测试完成时的退款语义
func TestComplete(t *testing.T) {
	t.Run("退款类型落退款金额和时间", func(t *testing.T) {
		a := &AfterSale{Status: StatusProcessing, Type: TypeRefund}
		now := time.Now()

		require.NoError(t, a.Complete(8900, now))
		assert.Equal(t, StatusCompleted, a.Status)
		assert.Equal(t, int64(8900), a.RefundAmount)
		require.NotNil(t, a.RefundTime)
		require.NotNil(t, a.CompleteTime)
	})

	t.Run("退货类型同样落退款", func(t *testing.T) {
		a := &AfterSale{Status: StatusProcessing, Type: TypeReturn}
		require.NoError(t, a.Complete(5000, time.Now()))
		assert.Equal(t, int64(5000), a.RefundAmount)
		require.NotNil(t, a.RefundTime)
	})

	t.Run("换货类型不产生退款", func(t *testing.T) {
		a := &AfterSale{Status: StatusProcessing, Type: TypeExchange}
		require.NoError(t, a.Complete(5000, time.Now()))
		assert.Equal(t, int64(0), a.RefundAmount, "换货不退款")
		assert.Nil(t, a.RefundTime)
		require.NotNil(t, a.CompleteTime, "完成时间照常记录")
	})
}

// TestCancel 测试取消的副作用字段
func TestCancel(t *testing.T) {
	a := &AfterSale{Status: StatusPending}
	require.NoError(t, a.Cancel("自己解决了", time.Now()))
	assert.Equal(t, StatusCancelled, a.Status)
	assert.Equal(t, "自己解决了", a.CancelReason)
	require.NotNil(t, a.CancelTime)
}
