package repository

import (
	"context"
	"fmt"
	"time"

	"LabelCMS/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user identity operations.
type UserRepository interface {
	Upsert(ctx context.Context, in model.UserUpsert) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByOpenID(ctx context.Context, openID string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	SetRole(ctx context.Context, openID string, role model.Role) error
}

// GormUserRepository implements UserRepository with GORM.
type GormUserRepository struct {
	db          *gorm.DB
	ownerOpenID string
	now         func() time.Time
}

// NewUserRepository creates a user repository. A login whose openId equals
// ownerOpenID is made admin; an empty ownerOpenID designates nobody.
func NewUserRepository(gdb *gorm.DB, ownerOpenID string) *GormUserRepository {
	return &GormUserRepository{db: gdb, ownerOpenID: ownerOpenID, now: time.Now}
}

func (r *GormUserRepository) isOwner(openID string) bool {
	return r.ownerOpenID != "" && openID == r.ownerOpenID
}

// Upsert records a successful login. A new openId creates a user with role
// user (admin for the owner). A known openId gets the supplied attributes
// written; lastSignedIn is refreshed either way.
func (r *GormUserRepository) Upsert(ctx context.Context, in model.UserUpsert) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if r.db == nil {
		return nil, ErrStorageUnavailable
	}

	now := r.now().UTC()
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("openId = ?", in.OpenID).Take(&user).Error
		if notFound(err) {
			user = model.User{
				OpenID:       in.OpenID,
				Name:         in.Name,
				Email:        in.Email,
				LoginMethod:  in.LoginMethod,
				Role:         model.RoleUser,
				CreatedAt:    now,
				UpdatedAt:    now,
				LastSignedIn: now,
			}
			if in.Role != nil {
				user.Role = *in.Role
			}
			if r.isOwner(in.OpenID) {
				user.Role = model.RoleAdmin
			}
			created, err := createOrTake(tx, &user)
			if err != nil || created {
				return err
			}
		} else if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"lastSignedIn": now,
			"updatedAt":    now,
		}
		if in.Name != nil {
			updates["name"] = *in.Name
			user.Name = in.Name
		}
		if in.Email != nil {
			updates["email"] = *in.Email
			user.Email = in.Email
		}
		if in.LoginMethod != nil {
			updates["loginMethod"] = *in.LoginMethod
			user.LoginMethod = in.LoginMethod
		}
		switch {
		case in.Role != nil:
			updates["role"] = *in.Role
			user.Role = *in.Role
		case r.isOwner(in.OpenID) && user.Role != model.RoleAdmin:
			updates["role"] = model.RoleAdmin
			user.Role = model.RoleAdmin
		}
		user.LastSignedIn = now
		user.UpdatedAt = now
		return tx.Model(&model.User{}).Where("id = ?", user.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, writeError("upsert user", err)
	}
	return &user, nil
}

// createOrTake inserts user unless a concurrent login already created its
// openId, in which case user is replaced by the stored row and created is false.
func createOrTake(tx *gorm.DB, user *model.User) (created bool, err error) {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "openId"}},
		DoNothing: true,
	}).Create(user)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	openID := user.OpenID
	*user = model.User{}
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("openId = ?", openID).Take(user).Error
	return false, err
}

// GetByID returns the user or ErrNotFound.
func (r *GormUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.take(ctx, "users.getById", "id = ?", id)
}

// GetByOpenID returns the user or ErrNotFound.
func (r *GormUserRepository) GetByOpenID(ctx context.Context, openID string) (*model.User, error) {
	return r.take(ctx, "users.getByOpenId", "openId = ?", openID)
}

func (r *GormUserRepository) take(ctx context.Context, op, cond string, arg interface{}) (*model.User, error) {
	if r.db == nil {
		unavailableRead(op)
		return nil, ErrNotFound
	}
	var user model.User
	err := r.db.WithContext(ctx).Where(cond, arg).Take(&user).Error
	if err != nil {
		if notFound(err) || degraded(op, err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns all users, newest first.
func (r *GormUserRepository) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if r.db == nil {
		unavailableRead("users.list")
		return users, nil
	}
	if err := r.db.WithContext(ctx).Order("createdAt DESC, id DESC").Find(&users).Error; err != nil {
		if degraded("users.list", err) {
			return []model.User{}, nil
		}
		return nil, err
	}
	return users, nil
}

// SetRole changes a user's role. It is an operator action (CLI) and does not
// consult the request gate.
func (r *GormUserRepository) SetRole(ctx context.Context, openID string, role model.Role) error {
	if !role.Valid() {
		return &model.ValidationError{Invalid: []string{"role"}}
	}
	if r.db == nil {
		return ErrStorageUnavailable
	}
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("openId = ?", openID).
		Updates(map[string]interface{}{"role": role, "updatedAt": r.now().UTC()})
	if res.Error != nil {
		return writeError(fmt.Sprintf("set role of %s", openID), res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
