// Tiendat | 2026
// security.go

package core

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Passcodes are short (4-6 digits), so the work factor carries the security
// weight. Cost 10 matches what the provisioning tooling produces.
const passcodeHashCost = 10

func HashPasscode(passcode string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), passcodeHashCost)
	if err != nil {
		return "", fmt.Errorf("hash passcode: %w", err)
	}
	return string(hash), nil
}

// VerifyPasscode returns false on a plain mismatch and an error only when
// the stored hash itself is malformed.
func VerifyPasscode(passcode, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(passcode))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify passcode: %w", err)
}

var dummyHash string

func init() {
	hash, err := HashPasscode("dummy_passcode_for_timing_attack_prevention")
	if err != nil {
		panic(fmt.Sprintf("security: failed to generate dummy hash: %v", err))
	}
	dummyHash = hash
}

// VerifyPasscodeTimingSafe always performs a bcrypt comparison, even when no
// stored hash exists, so unknown identifiers cost the same as wrong
// passcodes.
func VerifyPasscodeTimingSafe(passcode string, encodedHash *string) (bool, error) {
	hashToVerify := dummyHash
	if encodedHash != nil && *encodedHash != "" {
		hashToVerify = *encodedHash
	}

	valid, err := VerifyPasscode(passcode, hashToVerify)

	if encodedHash == nil || *encodedHash == "" {
		return false, nil
	}

	return valid, err
}
