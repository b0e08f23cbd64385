package entity

import (
	"time"

	"github.com/danukusuma/otpgate/internal/pkg/valueobject"
)

type User struct {
	ID        int64
	Email     string
	FullName  string
	Phone     string
	Role      string
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewUser struct {
	ID       int64
	Email    string
	FullName string
	Phone    string
	Role     string
	Status   UserStatus
}

type OTPRecord struct {
	ID        int64
	UserID    int64
	Email     string
	Purpose   OTPPurpose
	CodeHash  string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
	Metadata  valueobject.JSONMap
}

// ConsumeOTP describes the atomic mark-used plus optional status advance
// applied when a code is accepted.
type ConsumeOTP struct {
	RecordID  int64
	UserID    int64
	OldStatus UserStatus
	NewStatus UserStatus
}
