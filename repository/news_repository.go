package repository

import (
	"context"
	"time"

	"LabelCMS/core/auth"
	"LabelCMS/model"

	"gorm.io/gorm"
)

// NewsRepository defines the news operations.
type NewsRepository interface {
	ListAll(ctx context.Context) ([]model.News, error)
	ListLatest(ctx context.Context, limit int) ([]model.News, error)
	GetByID(ctx context.Context, id int64) (*model.News, error)
	Create(ctx context.Context, in model.NewsInput) (int64, error)
	Update(ctx context.Context, id int64, in model.NewsInput) error
	Delete(ctx context.Context, id int64) error
}

// GormNewsRepository implements NewsRepository with GORM.
type GormNewsRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewNewsRepository creates a news repository on gdb.
func NewNewsRepository(gdb *gorm.DB) *GormNewsRepository {
	return &GormNewsRepository{db: gdb, now: time.Now}
}

const newsOrder = "publishedAt DESC, id DESC"

func (r *GormNewsRepository) ListAll(ctx context.Context) ([]model.News, error) {
	articles := []model.News{}
	if r.db == nil {
		unavailableRead("news.listAll")
		return articles, nil
	}
	if err := r.db.WithContext(ctx).Order(newsOrder).Find(&articles).Error; err != nil {
		if degraded("news.listAll", err) {
			return []model.News{}, nil
		}
		return nil, err
	}
	return articles, nil
}

func (r *GormNewsRepository) ListLatest(ctx context.Context, limit int) ([]model.News, error) {
	articles := []model.News{}
	if r.db == nil {
		unavailableRead("news.listLatest")
		return articles, nil
	}
	err := r.db.WithContext(ctx).Order(newsOrder).Limit(normalizeLimit(limit)).Find(&articles).Error
	if err != nil {
		if degraded("news.listLatest", err) {
			return []model.News{}, nil
		}
		return nil, err
	}
	return articles, nil
}

func (r *GormNewsRepository) GetByID(ctx context.Context, id int64) (*model.News, error) {
	if r.db == nil {
		unavailableRead("news.getById")
		return nil, ErrNotFound
	}
	var article model.News
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&article).Error
	if err != nil {
		if notFound(err) || degraded("news.getById", err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

func (r *GormNewsRepository) Create(ctx context.Context, in model.NewsInput) (int64, error) {
	if err := auth.RequireWrite(ctx); err != nil {
		return 0, err
	}
	if err := in.ValidateCreate(); err != nil {
		return 0, err
	}
	if r.db == nil {
		return 0, ErrStorageUnavailable
	}

	now := r.now().UTC()
	article := in.ToNews(now)
	article.CreatedAt = now
	article.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		return 0, writeError("create news", err)
	}
	return article.ID, nil
}

func (r *GormNewsRepository) Update(ctx context.Context, id int64, in model.NewsInput) error {
	if err := auth.RequireWrite(ctx); err != nil {
		return err
	}
	if err := in.ValidatePatch(); err != nil {
		return err
	}
	if r.db == nil {
		return ErrStorageUnavailable
	}

	updates := in.Updates()
	updates["updatedAt"] = r.now().UTC()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.News{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return tx.Model(&model.News{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return writeError("update news", err)
	}
	return nil
}

func (r *GormNewsRepository) Delete(ctx context.Context, id int64) error {
	if err := auth.RequireWrite(ctx); err != nil {
		return err
	}
	if r.db == nil {
		return ErrStorageUnavailable
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.News{})
	if res.Error != nil {
		return writeError("delete news", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
