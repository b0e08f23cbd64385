package entity

type UserStatus int16

const (
	// UserStatusUnknown is mean status is not known / not set.
	UserStatusUnknown UserStatus = 0

	// UserStatusPending mean user exists but has not proven control of the email.
	UserStatusPending UserStatus = 1

	// UserStatusVerified mean user has verified the email but has no credential yet.
	UserStatusVerified UserStatus = 2

	// UserStatusActive mean user has set a credential and completed onboarding.
	UserStatusActive UserStatus = 3
)

func (us UserStatus) String() string {
	switch us {
	case UserStatusPending:
		return "pending_verification"
	case UserStatusVerified:
		return "verified"
	case UserStatusActive:
		return "active"
	default:
		return "unknown"
	}
}

func (us UserStatus) IsUnknown() bool {
	switch us {
	case UserStatusPending, UserStatusVerified, UserStatusActive:
		return false
	default:
		return true
	}
}

func (us UserStatus) Ensure() UserStatus {
	switch us {
	case UserStatusPending:
		return UserStatusPending
	case UserStatusVerified:
		return UserStatusVerified
	case UserStatusActive:
		return UserStatusActive
	default:
		return UserStatusUnknown
	}
}

type OTPPurpose int16

const (
	OTPPurposeUnknown       OTPPurpose = 0
	OTPPurposeRegistration  OTPPurpose = 1
	OTPPurposePasswordReset OTPPurpose = 2
)

func (p OTPPurpose) String() string {
	switch p {
	case OTPPurposeRegistration:
		return "registration"
	case OTPPurposePasswordReset:
		return "password_reset"
	default:
		return "unknown"
	}
}

func OTPPurposeFromString(str string) OTPPurpose {
	switch str {
	case "registration":
		return OTPPurposeRegistration
	case "password_reset":
		return OTPPurposePasswordReset
	default:
		return OTPPurposeUnknown
	}
}
