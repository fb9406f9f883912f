// Tiendat | 2026
// entity.go

package photo

import (
	"time"

	"github.com/google/uuid"
)

// Image is one photo in a keepsake. Position is the 1-20 display slot; nil
// means the photo is uploaded but not placed.
type Image struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	UserID    string    `db:"user_id"    json:"userId"`
	ImageURL  string    `db:"image_url"  json:"imageUrl"`
	ImagePath string    `db:"image_path" json:"-"`
	FileName  string    `db:"file_name"  json:"fileName"`
	FileSize  int64     `db:"file_size"  json:"fileSize"`
	MimeType  string    `db:"mime_type"  json:"mimeType"`
	Position  *int      `db:"position"   json:"position,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
