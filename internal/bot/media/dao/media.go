// Package dao is the data access layer for media records and image objects.
package dao

import (
	"context"

	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Laisky/laisky-media-bot/internal/bot/media/model"
)

// MediaRepo is thin CRUD over the media table.
//
// Datastore conflict and not-found errors pass through unwrapped so callers
// can match gorm.ErrDuplicatedKey and gorm.ErrRecordNotFound directly.
type MediaRepo struct {
	db *gorm.DB
}

// NewMediaRepo create new media repo
func NewMediaRepo(db *gorm.DB) *MediaRepo {
	return &MediaRepo{db: db}
}

// Create inserts a media record, assigning a fresh ID when absent.
// A duplicate (guild_id, name) pair surfaces as gorm.ErrDuplicatedKey.
func (d *MediaRepo) Create(ctx context.Context, media *model.Media) (*model.Media, error) {
	if media.ID == "" {
		media.ID = uuid.NewString()
	}

	if err := d.db.WithContext(ctx).Create(media).Error; err != nil {
		return nil, err
	}

	return media, nil
}

// FindByID returns the record with the given id, or nil when absent.
func (d *MediaRepo) FindByID(ctx context.Context, id string) (*model.Media, error) {
	media := new(model.Media)
	err := d.db.WithContext(ctx).
		Where("id = ?", id).
		First(media).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return media, nil
}

// FindByName returns the record for (name, guildID), or nil when absent.
// The lookup is case-sensitive; creation layers lowercase names beforehand.
func (d *MediaRepo) FindByName(ctx context.Context, name, guildID string) (*model.Media, error) {
	media := new(model.Media)
	err := d.db.WithContext(ctx).
		Where("name = ? AND guild_id = ?", name, guildID).
		First(media).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return media, nil
}

// FindByGuild returns all of a guild's records, newest first.
func (d *MediaRepo) FindByGuild(ctx context.Context, guildID string) ([]*model.Media, error) {
	var medias []*model.Media
	err := d.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("created_at DESC").
		Find(&medias).Error
	if err != nil {
		return nil, err
	}

	return medias, nil
}

// Update overwrites the record with the given id.
// Updating a missing id surfaces as gorm.ErrRecordNotFound.
func (d *MediaRepo) Update(ctx context.Context, id string, media *model.Media) (*model.Media, error) {
	media.ID = id
	result := d.db.WithContext(ctx).
		Model(&model.Media{}).
		Where("id = ?", id).
		Updates(media)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return d.FindByID(ctx, id)
}

// Delete removes the record with the given id.
// Deleting a missing id surfaces as gorm.ErrRecordNotFound.
func (d *MediaRepo) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Media{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
