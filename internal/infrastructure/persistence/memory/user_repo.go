package memory

import (
	"context"
	"time"

	"github.com/xiebiao/mall-admin/internal/domain/user"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
)

// UserRepository 用户仓储内存实现
type UserRepository struct {
	store *Store
}

// NewUserRepository 创建用户仓储
func NewUserRepository(store *Store) user.Repository {
	return &UserRepository{store: store}
}

// Create 创建用户（用户名冲突返回ErrUsernameDuplicate）
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	defer r.store.lock(ctx)()

	if _, exists := r.store.usernames[u.Username]; exists {
		return apperrors.ErrUsernameDuplicate
	}

	u.ID = r.store.genID("users")
	clone := *u
	r.store.users[u.ID] = &clone
	r.store.usernames[u.Username] = u.ID
	return nil
}

// FindByID 根据ID查找用户
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	defer r.store.lock(ctx)()

	stored, ok := r.store.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	clone := *stored
	return &clone, nil
}

// FindByUsername 根据用户名查找用户
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	defer r.store.lock(ctx)()

	id, ok := r.store.usernames[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	clone := *r.store.users[id]
	return &clone, nil
}

// UpdateLastLogin 更新最后登录时间
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	defer r.store.lock(ctx)()

	stored, ok := r.store.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	stored.LastLogin = &at
	stored.UpdatedAt = at
	return nil
}

// CountCreated 统计区间内注册的用户数
func (r *UserRepository) CountCreated(ctx context.Context, from, to time.Time) (int64, error) {
	defer r.store.lock(ctx)()

	var count int64
	for _, u := range r.store.users {
		if inRange(u.CreatedAt, from, to) {
			count++
		}
	}
	return count, nil
}
