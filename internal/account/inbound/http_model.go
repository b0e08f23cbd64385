package inbound

type RequestRegistrationOTPRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type RequestPasswordResetOTPRequest struct {
	Email string `json:"email"`
}

type RequestOTPResponse struct {
	ExpiresInSeconds int64 `json:"expires_in_seconds"`
}

func (RequestOTPResponse) Message() string {
	return "A verification code has been sent to your email."
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifyOTPResponse struct{}

func (VerifyOTPResponse) Message() string {
	return "Code verified. You can now continue."
}

type CompleteRegistrationRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CompleteRegistrationResponse struct{}

func (CompleteRegistrationResponse) Message() string {
	return "Registration complete. Your account is now active."
}

type PasswordResetRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type PasswordResetResponse struct{}

func (PasswordResetResponse) Message() string {
	return "Your password has been updated."
}
