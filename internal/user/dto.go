// Tiendat | 2026
// dto.go

package user

type UpdateProfileRequest struct {
	FullName string `json:"fullName" validate:"required,min=1,max=100"`
	Phone    string `json:"phone"    validate:"omitempty,max=32"`
}

type UserResponse struct {
	UserID    string  `json:"userId"`
	Email     string  `json:"email"`
	FullName  *string `json:"fullName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	IsActive  bool    `json:"isActive"`
	CreatedAt string  `json:"createdAt"`
}

type ListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

func toUserResponse(u *User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
