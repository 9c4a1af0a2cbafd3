package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/mall-admin/internal/domain/tx"
)

// txKey 事务在context中的键
type txKey struct{}

// TxManager 事务管理器
// 教学要点:
// 1. 实现domain层的tx.Manager接口，应用层不直接依赖GORM
// 2. 通过context传递事务对象，各Repository从context中提取
// 3. fn返回错误时自动回滚，否则自动提交（由db.Transaction保证）
// 4. 状态变更+日志追加必须在同一个事务中，原子性由这里兜底
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) tx.Manager {
	return &TxManager{db: db}
}

// Transaction 在事务中执行fn
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
		// 将事务对象注入context，Repository通过getDB提取
		txCtx := context.WithValue(ctx, txKey{}, txDB)
		return fn(txCtx)
	})
}

// getDB 从context中提取事务对象，没有事务时返回原始连接
// 所有Repository方法都通过它取连接，保证事务内外行为一致
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if txDB, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return txDB
	}
	return db.WithContext(ctx)
}
