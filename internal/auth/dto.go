// Tiendat | 2026
// dto.go

package auth

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type RegisterRequest struct {
	UserID   string `json:"userId"   validate:"omitempty,max=64"`
	Passcode string `json:"passcode" validate:"required,numeric,min=4,max=6"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	FullName string `json:"fullName" validate:"omitempty,max=100"`
	Phone    string `json:"phone"    validate:"omitempty,max=32"`
}

type VerifyPasscodeRequest struct {
	UserID   string `json:"userId"   validate:"required,max=64"`
	Passcode string `json:"passcode" validate:"required,numeric,min=4,max=6"`
}

type ChangePasscodeRequest struct {
	OldPasscode string `json:"oldPasscode" validate:"required,numeric,min=4,max=6"`
	NewPasscode string `json:"newPasscode" validate:"required,numeric,min=4,max=6"`
}

type ResetPasscodeRequest struct {
	UserID      string `json:"userId"      validate:"required,max=64"`
	NewPasscode string `json:"newPasscode" validate:"required,numeric,min=4,max=6"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	Email       string `json:"email,omitempty"`
}

type RegisterResponse struct {
	UserID   string  `json:"userId"`
	Email    string  `json:"email"`
	FullName *string `json:"fullName,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}
