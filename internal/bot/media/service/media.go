// Package service implements the domain operations over media records:
// creation with key normalization, lookup, listing, deletion, the upload
// orchestration and the read-side viewer.
package service

import (
	"context"
	"strings"

	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/Laisky/laisky-media-bot/internal/bot/media/dao"
	"github.com/Laisky/laisky-media-bot/internal/bot/media/model"
	"github.com/Laisky/laisky-media-bot/library/log"
)

// Repo is the capability set the media service needs from its datastore.
// *dao.MediaRepo implements it; tests may substitute fakes.
type Repo interface {
	Create(ctx context.Context, media *model.Media) (*model.Media, error)
	FindByID(ctx context.Context, id string) (*model.Media, error)
	FindByName(ctx context.Context, name, guildID string) (*model.Media, error)
	FindByGuild(ctx context.Context, guildID string) ([]*model.Media, error)
	Update(ctx context.Context, id string, media *model.Media) (*model.Media, error)
	Delete(ctx context.Context, id string) error
}

var _ Repo = (*dao.MediaRepo)(nil)

// Interface is the media service capability set consumed by handlers.
type Interface interface {
	CreateMediaRecord(ctx context.Context, media *model.Media) (*model.Media, error)
	GetMediaByName(ctx context.Context, name, guildID string) (*model.Media, error)
	ListGuildMedia(ctx context.Context, guildID string) ([]*model.Media, error)
	DeleteMediaRecord(ctx context.Context, id string) error
}

// MediaService manages media records after the object-store upload.
type MediaService struct {
	repo     Repo
	logger   logSDK.Logger
	basePath string
}

var _ Interface = (*MediaService)(nil)

// NewMediaService create new media service.
// An empty basePath falls back to the store default.
func NewMediaService(repo Repo, logger logSDK.Logger, basePath string) *MediaService {
	if logger == nil {
		logger = log.Logger.Named("media_service")
	}
	if basePath == "" {
		basePath = dao.DefaultImageBasePath
	}

	return &MediaService{
		repo:     repo,
		logger:   logger,
		basePath: basePath,
	}
}

// CreateMediaRecord persists a media record. A file key that does not
// already contain the base path gets it prepended; keys that contain it
// anywhere are left untouched, so re-submitting a prefixed key never
// double-prefixes it.
func (s *MediaService) CreateMediaRecord(ctx context.Context, media *model.Media) (*model.Media, error) {
	if !strings.Contains(media.FileKey, s.basePath) {
		media.FileKey = s.basePath + "/" + media.FileKey
	}

	created, err := s.repo.Create(ctx, media)
	if err != nil {
		s.logger.Error("create media record",
			zap.Error(err),
			zap.String("name", media.Name),
			zap.String("guild_id", media.GuildID))
		return nil, err
	}

	s.logger.Info("created media record",
		zap.String("name", created.Name),
		zap.String("guild_id", created.GuildID))
	return created, nil
}

// GetMediaByName returns the record registered under (name, guildID),
// or nil when no such command exists.
func (s *MediaService) GetMediaByName(ctx context.Context, name, guildID string) (*model.Media, error) {
	return s.repo.FindByName(ctx, name, guildID)
}

// ListGuildMedia returns all of a guild's records, newest first.
func (s *MediaService) ListGuildMedia(ctx context.Context, guildID string) ([]*model.Media, error) {
	return s.repo.FindByGuild(ctx, guildID)
}

// DeleteMediaRecord removes the database record only; the stored object is
// left in place.
func (s *MediaService) DeleteMediaRecord(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
