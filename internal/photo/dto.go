// Tiendat | 2026
// dto.go

package photo

import "github.com/google/uuid"

// ListOptions pages and orders a photo listing. SortBy is either "position"
// (slot order, unplaced last) or "createdAt" (newest first).
type ListOptions struct {
	Limit  int
	Offset int
	SortBy string
}

type ListResponse struct {
	Images []Image `json:"images"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

type UpdatePositionRequest struct {
	Position *int `json:"position"`
}

// BatchResult reports per-file outcomes for a batch upload. One bad file
// does not sink the rest.
type BatchResult struct {
	Uploaded []Image       `json:"uploaded"`
	Failed   []BatchFailed `json:"failed,omitempty"`
}

type BatchFailed struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

type DeleteResponse struct {
	ID uuid.UUID `json:"id"`
}
