// Tiendat | 2026
// identity_test.go

package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "numeric", input: "12345", want: "12345"},
		{name: "prefixed user", input: "user_1712345678901_42", want: "user_1712345678901_42"},
		{name: "prefixed usr", input: "usr123_456", want: "usr123_456"},
		{name: "uppercase normalized", input: "USER_1712345678901_42", want: "user_1712345678901_42"},
		{name: "surrounding whitespace", input: "  42  ", want: "42"},
		{name: "leading zeros preserved", input: "007", want: "007"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "all zeros", input: "000", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "alpha", input: "abc", wantErr: true},
		{name: "sql injection attempt", input: "1; DROP TABLE users", wantErr: true},
		{name: "prefixed missing suffix", input: "user_123", wantErr: true},
		{name: "prefixed trailing underscore", input: "user_123_", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateUserID(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidIdentifier)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePosition(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	assert.NoError(t, ValidatePosition(nil))
	assert.NoError(t, ValidatePosition(intPtr(1)))
	assert.NoError(t, ValidatePosition(intPtr(20)))
	assert.ErrorIs(t, ValidatePosition(intPtr(0)), ErrInvalidPosition)
	assert.ErrorIs(t, ValidatePosition(intPtr(21)), ErrInvalidPosition)
	assert.ErrorIs(t, ValidatePosition(intPtr(-3)), ErrInvalidPosition)
}

func TestNewUserID(t *testing.T) {
	id := NewUserID()

	assert.True(t, strings.HasPrefix(id, "user_"))

	normalized, err := ValidateUserID(id)
	require.NoError(t, err)
	assert.Equal(t, id, normalized)
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(New("admin", RoleAdmin)))
	assert.Error(t, RequireAdmin(New("user_1_1", RoleUser)))
}

func TestAuthorize(t *testing.T) {
	admin := New("admin", RoleAdmin)
	owner := New("user_1712345678901_42", RoleUser)

	assert.NoError(t, Authorize(admin, "user_999_1"))
	assert.NoError(t, Authorize(owner, "user_1712345678901_42"))
	assert.Error(t, Authorize(owner, "user_999_1"))
	assert.ErrorIs(t, Authorize(owner, ""), ErrMissingTarget)
}
