// Package model defines the data model for the media-command service.
package model

import (
	"time"
)

// Media links a command name to a stored image and its metadata.
// A name is unique within its guild; all queries are guild-scoped.
type Media struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Name       string    `gorm:"size:190;not null;uniqueIndex:idx_media_guild_name" json:"name"`
	GuildID    string    `gorm:"size:64;not null;uniqueIndex:idx_media_guild_name" json:"guild_id"`
	UploadedBy string    `gorm:"size:64;not null" json:"uploaded_by"`
	URL        string    `gorm:"not null" json:"url"`
	FileKey    string    `gorm:"not null" json:"file_key"`
	MimeType   string    `gorm:"size:64" json:"mime_type"`
	FileSize   int64     `json:"file_size"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName keeps the table name stable across gorm naming strategies.
func (Media) TableName() string {
	return "media"
}
