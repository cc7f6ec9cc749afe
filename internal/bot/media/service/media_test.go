package service

import (
	"context"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Laisky/laisky-media-bot/internal/bot/media/model"
)

// fakeRepo is an in-memory Repo keyed by (guildID, name).
type fakeRepo struct {
	byID      map[string]*model.Media
	createErr error
	listErr   error
	created   []*model.Media
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]*model.Media)}
}

func (f *fakeRepo) Create(_ context.Context, media *model.Media) (*model.Media, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.GuildID == media.GuildID && existing.Name == media.Name {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	if media.ID == "" {
		media.ID = "id-" + media.GuildID + "-" + media.Name
	}
	f.byID[media.ID] = media
	f.created = append(f.created, media)
	return media, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*model.Media, error) {
	return f.byID[id], nil
}

func (f *fakeRepo) FindByName(_ context.Context, name, guildID string) (*model.Media, error) {
	for _, media := range f.byID {
		if media.GuildID == guildID && media.Name == name {
			return media, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindByGuild(_ context.Context, guildID string) ([]*model.Media, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var medias []*model.Media
	for _, media := range f.byID {
		if media.GuildID == guildID {
			medias = append(medias, media)
		}
	}
	return medias, nil
}

func (f *fakeRepo) Update(_ context.Context, id string, media *model.Media) (*model.Media, error) {
	if _, ok := f.byID[id]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	media.ID = id
	f.byID[id] = media
	return media, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byID, id)
	return nil
}

func TestCreateMediaRecordPrefixesFileKey(t *testing.T) {
	t.Parallel()
	svc := NewMediaService(newFakeRepo(), nil, "")
	ctx := context.Background()

	created, err := svc.CreateMediaRecord(ctx, &model.Media{
		Name:    "cat",
		GuildID: "guild-1",
		FileKey: "cat.png",
	})
	require.NoError(t, err)
	require.Equal(t, "images/cat.png", created.FileKey)
}

func TestCreateMediaRecordPrefixIdempotent(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	svc := NewMediaService(repo, nil, "")
	ctx := context.Background()

	created, err := svc.CreateMediaRecord(ctx, &model.Media{
		Name:    "cat",
		GuildID: "guild-1",
		FileKey: "images/cat.png",
	})
	require.NoError(t, err)
	require.Equal(t, "images/cat.png", created.FileKey)

	// running the prefix logic again over the stored key must not stack prefixes
	same, err := svc.CreateMediaRecord(ctx, &model.Media{
		Name:    "cat2",
		GuildID: "guild-1",
		FileKey: created.FileKey,
	})
	require.NoError(t, err)
	require.Equal(t, "images/cat.png", same.FileKey)
}

func TestCreateMediaRecordContainmentNotPrefix(t *testing.T) {
	t.Parallel()
	svc := NewMediaService(newFakeRepo(), nil, "")
	ctx := context.Background()

	// the substring check treats any occurrence as already prefixed
	created, err := svc.CreateMediaRecord(ctx, &model.Media{
		Name:    "cat",
		GuildID: "guild-1",
		FileKey: "old/images/cat.png",
	})
	require.NoError(t, err)
	require.Equal(t, "old/images/cat.png", created.FileKey)
}

func TestCreateMediaRecordPropagatesRepoError(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	repo.createErr = gorm.ErrDuplicatedKey
	svc := NewMediaService(repo, nil, "")

	_, err := svc.CreateMediaRecord(context.Background(), &model.Media{
		Name:    "cat",
		GuildID: "guild-1",
		FileKey: "cat.png",
	})
	// repository errors pass through unwrapped
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	require.Equal(t, gorm.ErrDuplicatedKey, err)
}

func TestGetMediaByNameMissReturnsNil(t *testing.T) {
	t.Parallel()
	svc := NewMediaService(newFakeRepo(), nil, "")

	got, err := svc.GetMediaByName(context.Background(), "missing", "guild-1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDeleteMediaRecord(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	svc := NewMediaService(repo, nil, "")
	ctx := context.Background()

	created, err := svc.CreateMediaRecord(ctx, &model.Media{
		Name:    "cat",
		GuildID: "guild-1",
		FileKey: "cat.png",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMediaRecord(ctx, created.ID))
	require.ErrorIs(t, svc.DeleteMediaRecord(ctx, created.ID), gorm.ErrRecordNotFound)
}

func TestListGuildMediaEmpty(t *testing.T) {
	t.Parallel()
	svc := NewMediaService(newFakeRepo(), nil, "")

	medias, err := svc.ListGuildMedia(context.Background(), "guild-404")
	require.NoError(t, err)
	require.Empty(t, medias)
}

func TestListGuildMediaError(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	repo.listErr = errors.New("db gone")
	svc := NewMediaService(repo, nil, "")

	_, err := svc.ListGuildMedia(context.Background(), "guild-1")
	require.ErrorContains(t, err, "db gone")
}
