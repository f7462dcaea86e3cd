package repository

import (
	"context"
	"time"

	"LabelCMS/core/auth"
	"LabelCMS/model"

	"gorm.io/gorm"
)

// ReleaseRepository defines the release operations.
type ReleaseRepository interface {
	// ListAll returns every release, newest releaseDate first.
	ListAll(ctx context.Context) ([]model.Release, error)

	// ListLatest returns at most limit releases in ListAll order.
	ListLatest(ctx context.Context, limit int) ([]model.Release, error)

	// GetByID returns the release or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.Release, error)

	// GetWithTracks returns the release joined with its ordered tracks.
	GetWithTracks(ctx context.Context, id int64) (*model.ReleaseWithTracks, error)

	// Create inserts a release and returns its id. Admin only.
	Create(ctx context.Context, in model.ReleaseInput) (int64, error)

	// Update writes the present fields of in. Admin only.
	Update(ctx context.Context, id int64, in model.ReleaseInput) error

	// Delete removes the release and all of its tracks atomically. Admin only.
	Delete(ctx context.Context, id int64) error
}

// GormReleaseRepository implements ReleaseRepository with GORM.
type GormReleaseRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewReleaseRepository creates a release repository on gdb.
func NewReleaseRepository(gdb *gorm.DB) *GormReleaseRepository {
	return &GormReleaseRepository{db: gdb, now: time.Now}
}

const releaseOrder = "releaseDate DESC, id DESC"

func (r *GormReleaseRepository) ListAll(ctx context.Context) ([]model.Release, error) {
	releases := []model.Release{}
	if r.db == nil {
		unavailableRead("releases.listAll")
		return releases, nil
	}
	err := r.db.WithContext(ctx).Order(releaseOrder).Find(&releases).Error
	if err != nil {
		if degraded("releases.listAll", err) {
			return []model.Release{}, nil
		}
		return nil, err
	}
	return releases, nil
}

func (r *GormReleaseRepository) ListLatest(ctx context.Context, limit int) ([]model.Release, error) {
	releases := []model.Release{}
	if r.db == nil {
		unavailableRead("releases.listLatest")
		return releases, nil
	}
	err := r.db.WithContext(ctx).Order(releaseOrder).Limit(normalizeLimit(limit)).Find(&releases).Error
	if err != nil {
		if degraded("releases.listLatest", err) {
			return []model.Release{}, nil
		}
		return nil, err
	}
	return releases, nil
}

func (r *GormReleaseRepository) GetByID(ctx context.Context, id int64) (*model.Release, error) {
	if r.db == nil {
		unavailableRead("releases.getById")
		return nil, ErrNotFound
	}
	var release model.Release
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&release).Error
	if err != nil {
		if notFound(err) || degraded("releases.getById", err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &release, nil
}

func (r *GormReleaseRepository) GetWithTracks(ctx context.Context, id int64) (*model.ReleaseWithTracks, error) {
	release, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tracks, err := NewTrackRepository(r.db).ListByRelease(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.ReleaseWithTracks{Release: *release, Tracks: tracks}, nil
}

func (r *GormReleaseRepository) Create(ctx context.Context, in model.ReleaseInput) (int64, error) {
	if err := auth.RequireWrite(ctx); err != nil {
		return 0, err
	}
	if err := in.ValidateCreate(); err != nil {
		return 0, err
	}
	if r.db == nil {
		return 0, ErrStorageUnavailable
	}

	release := in.ToRelease()
	now := r.now().UTC()
	release.CreatedAt = now
	release.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(release).Error; err != nil {
		return 0, writeError("create release", err)
	}
	return release.ID, nil
}

func (r *GormReleaseRepository) Update(ctx context.Context, id int64, in model.ReleaseInput) error {
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
		if err := tx.Model(&model.Release{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return tx.Model(&model.Release{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return writeError("update release", err)
	}
	return nil
}

func (r *GormReleaseRepository) Delete(ctx context.Context, id int64) error {
	if err := auth.RequireWrite(ctx); err != nil {
		return err
	}
	if r.db == nil {
		return ErrStorageUnavailable
	}

	// Tracks before the release, both or neither.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := NewTrackRepository(tx).DeleteByRelease(ctx, id); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Release{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return writeError("delete release", err)
	}
	return nil
}
