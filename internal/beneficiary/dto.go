// Tiendat | 2026
// dto.go

package beneficiary

type UpsertRequest struct {
	FullName     string `json:"fullName"     validate:"required,min=1,max=100"`
	Relationship string `json:"relationship" validate:"omitempty,max=50"`
	Phone        string `json:"phone"        validate:"omitempty,max=20"`
	Email        string `json:"email"        validate:"omitempty,email,max=254"`
}

// SlotsResponse mirrors the two fixed slots; an empty slot is null, not
// absent, so clients can bind to a stable shape.
type SlotsResponse struct {
	Primary   *Beneficiary `json:"primary"`
	Secondary *Beneficiary `json:"secondary"`
}
