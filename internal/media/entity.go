// Tiendat | 2026
// entity.go

// Package media handles the singleton video and voice recording each
// keepsake carries: at most one of each per user, replaced in place.
package media

import (
	"time"

	"github.com/google/uuid"
)

type Media struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	UserID    string    `db:"user_id"    json:"userId"`
	URL       string    `db:"url"        json:"url"`
	Path      string    `db:"path"       json:"-"`
	FileName  string    `db:"file_name"  json:"fileName"`
	FileSize  int64     `db:"file_size"  json:"fileSize"`
	MimeType  string    `db:"mime_type"  json:"mimeType"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Kind selects which singleton a call operates on. The table and column
// names are fixed constants, never user input.
type Kind struct {
	name    string
	table   string
	urlCol  string
	pathCol string
}

func (k Kind) Name() string { return k.name }

var (
	KindVideo = Kind{
		name:    "video",
		table:   "user_videos",
		urlCol:  "video_url",
		pathCol: "video_path",
	}
	KindVoice = Kind{
		name:    "voice",
		table:   "user_voices",
		urlCol:  "voice_url",
		pathCol: "voice_path",
	}
)
