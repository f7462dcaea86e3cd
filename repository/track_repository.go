package repository

import (
	"context"
	"time"

	"LabelCMS/core/auth"
	"LabelCMS/model"

	"gorm.io/gorm"
)

// TrackRepository defines the track operations.
type TrackRepository interface {
	ListAll(ctx context.Context) ([]model.Track, error)
	ListByRelease(ctx context.Context, releaseID int64) ([]model.Track, error)
	GetByID(ctx context.Context, id int64) (*model.Track, error)
	Create(ctx context.Context, in model.TrackInput) (int64, error)
	Update(ctx context.Context, id int64, in model.TrackInput) error
	Delete(ctx context.Context, id int64) error
	DeleteByRelease(ctx context.Context, releaseID int64) (int64, error)
}

// GormTrackRepository implements TrackRepository with GORM.
type GormTrackRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTrackRepository creates a track repository on gdb, which may be a
// transaction handle.
func NewTrackRepository(gdb *gorm.DB) *GormTrackRepository {
	return &GormTrackRepository{db: gdb, now: time.Now}
}

// ListAll returns every track ordered by release, then track number.
func (r *GormTrackRepository) ListAll(ctx context.Context) ([]model.Track, error) {
	tracks := []model.Track{}
	if r.db == nil {
		unavailableRead("tracks.listAll")
		return tracks, nil
	}
	err := r.db.WithContext(ctx).Order("releaseId ASC, trackNumber ASC, id ASC").Find(&tracks).Error
	if err != nil {
		if degraded("tracks.listAll", err) {
			return []model.Track{}, nil
		}
		return nil, err
	}
	return tracks, nil
}

// ListByRelease returns the tracks of one release in track-number order.
// An unknown release yields an empty slice, not an error.
func (r *GormTrackRepository) ListByRelease(ctx context.Context, releaseID int64) ([]model.Track, error) {
	tracks := []model.Track{}
	if r.db == nil {
		unavailableRead("tracks.listByRelease")
		return tracks, nil
	}
	err := r.db.WithContext(ctx).
		Where("releaseId = ?", releaseID).
		Order("trackNumber ASC, id ASC").
		Find(&tracks).Error
	if err != nil {
		if degraded("tracks.listByRelease", err) {
			return []model.Track{}, nil
		}
		return nil, err
	}
	return tracks, nil
}

// GetByID returns the track or ErrNotFound.
func (r *GormTrackRepository) GetByID(ctx context.Context, id int64) (*model.Track, error) {
	if r.db == nil {
		unavailableRead("tracks.getById")
		return nil, ErrNotFound
	}
	var track model.Track
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&track).Error
	if err != nil {
		if notFound(err) || degraded("tracks.getById", err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &track, nil
}

// Create inserts a track. The release reference is not checked.
func (r *GormTrackRepository) Create(ctx context.Context, in model.TrackInput) (int64, error) {
	if err := auth.RequireWrite(ctx); err != nil {
		return 0, err
	}
	if err := in.ValidateCreate(); err != nil {
		return 0, err
	}
	if r.db == nil {
		return 0, ErrStorageUnavailable
	}

	track := in.ToTrack()
	track.CreatedAt = r.now().UTC()
	if err := r.db.WithContext(ctx).Create(track).Error; err != nil {
		return 0, writeError("create track", err)
	}
	return track.ID, nil
}

// Update writes the present fields of in.
func (r *GormTrackRepository) Update(ctx context.Context, id int64, in model.TrackInput) error {
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
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Track{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&model.Track{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return writeError("update track", err)
	}
	return nil
}

// Delete removes one track.
func (r *GormTrackRepository) Delete(ctx context.Context, id int64) error {
	if err := auth.RequireWrite(ctx); err != nil {
		return err
	}
	if r.db == nil {
		return ErrStorageUnavailable
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Track{})
	if res.Error != nil {
		return writeError("delete track", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByRelease removes every track of a release and returns how many were
// removed. Zero is not an error.
func (r *GormTrackRepository) DeleteByRelease(ctx context.Context, releaseID int64) (int64, error) {
	if err := auth.RequireWrite(ctx); err != nil {
		return 0, err
	}
	if r.db == nil {
		return 0, ErrStorageUnavailable
	}
	res := r.db.WithContext(ctx).Where("releaseId = ?", releaseID).Delete(&model.Track{})
	if res.Error != nil {
		return 0, writeError("delete tracks of release", res.Error)
	}
	return res.RowsAffected, nil
}
