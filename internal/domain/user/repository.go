package user

import (
	"context"
	"time"
)

// Repository 用户仓储接口
// 统计查询的时间区间为左闭右开[from, to)
type Repository interface {
	// Create 创建用户（用户名/邮箱唯一性由数据库UNIQUE索引保证）
	Create(ctx context.Context, u *User) error

	// FindByID 根据ID查找用户
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 根据用户名查找用户
	FindByUsername(ctx context.Context, username string) (*User, error)

	// UpdateLastLogin 更新最后登录时间
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error

	// CountCreated 统计区间内注册的用户数（零值时间表示不限）
	CountCreated(ctx context.Context, from, to time.Time) (int64, error)
}
