package service

import (
	"context"
	"sort"

	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Laisky/laisky-media-bot/internal/bot/media/model"
	"github.com/Laisky/laisky-media-bot/library/log"
)

// SortOption selects how a guild's media list is ordered for display.
type SortOption string

const (
	// SortAlphabetical orders by name, locale aware, A to Z.
	SortAlphabetical SortOption = "alphabetical"
	// SortRecent orders by creation time, newest first.
	SortRecent SortOption = "recent"
)

// ViewOptions carries caller-supplied ordering. The zero value means
// alphabetical, not reversed.
type ViewOptions struct {
	SortBy  SortOption
	Reverse bool
}

// MediaViewer is the read-side presentation over the media service.
type MediaViewer struct {
	media    Interface
	logger   logSDK.Logger
	collator *collate.Collator
}

// NewMediaViewer create new media viewer
func NewMediaViewer(media Interface, logger logSDK.Logger) *MediaViewer {
	if logger == nil {
		logger = log.Logger.Named("media_viewer")
	}

	return &MediaViewer{
		media:    media,
		logger:   logger,
		collator: collate.New(language.English, collate.IgnoreCase),
	}
}

// OrganizedGuildMedia fetches a guild's media and sorts a copy per options.
// A nil fetch result propagates as nil.
func (v *MediaViewer) OrganizedGuildMedia(ctx context.Context,
	guildID string, opts ViewOptions,
) ([]*model.Media, error) {
	medias, err := v.media.ListGuildMedia(ctx, guildID)
	if err != nil {
		v.logger.Error("retrieve organized guild media",
			zap.Error(err), zap.String("guild_id", guildID))
		return nil, err
	}
	if medias == nil {
		return nil, nil
	}

	return v.sortMedia(medias, opts), nil
}

// sortMedia orders a copy of the list, never the fetched slice itself.
func (v *MediaViewer) sortMedia(medias []*model.Media, opts ViewOptions) []*model.Media {
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = SortAlphabetical
	}

	sorted := make([]*model.Media, len(medias))
	copy(sorted, medias)

	switch sortBy {
	case SortRecent:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return v.collator.CompareString(sorted[i].Name, sorted[j].Name) < 0
		})
	}

	if opts.Reverse {
		for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
			sorted[i], sorted[j] = sorted[j], sorted[i]
		}
	}

	return sorted
}
