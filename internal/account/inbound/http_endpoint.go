package inbound

import (
	"github.com/danukusuma/otpgate/internal/account/entity"
	"github.com/danukusuma/otpgate/internal/account/usecase"
	"github.com/danukusuma/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the account onboarding and password
// recovery workflows.
type HTTPEndpoint struct {
	uc uc
}

// RequestRegistrationOTP issues a registration code for a new or pending account.
// @Summary Request registration code
// @Description Creates the account (pending verification) when unseen and sends a one-time code to the email.
// @Tags Account, Registration
// @Accept json
// @Produce json
// @Param request body RequestRegistrationOTPRequest true "Registration payload"
// @Success 200 {object} router.successResponse{data=RequestOTPResponse} "Code issued"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Requested too soon"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/account/register/otp [post]
func (h *HTTPEndpoint) RequestRegistrationOTP(r *router.Request) (any, error) {
	var req RequestRegistrationOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestOTP(r.Context(), usecase.RequestOTPInput{
		Email:    req.Email,
		Purpose:  entity.OTPPurposeRegistration,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		return nil, err
	}

	return RequestOTPResponse{ExpiresInSeconds: int64(resp.ExpiresIn.Seconds())}, nil
}

// RequestPasswordResetOTP issues a password-reset code for an active account.
// @Summary Request password reset code
// @Description Sends a one-time code to the email when it belongs to an active account.
// @Tags Account, Password
// @Accept json
// @Produce json
// @Param request body RequestPasswordResetOTPRequest true "Forgot password payload"
// @Success 200 {object} router.successResponse{data=RequestOTPResponse} "Code issued"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 404 {object} router.errorResponse "Email not registered or not active"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Requested too soon"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/account/password/forgot [post]
func (h *HTTPEndpoint) RequestPasswordResetOTP(r *router.Request) (any, error) {
	var req RequestPasswordResetOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestOTP(r.Context(), usecase.RequestOTPInput{
		Email:   req.Email,
		Purpose: entity.OTPPurposePasswordReset,
	})
	if err != nil {
		return nil, err
	}

	return RequestOTPResponse{ExpiresInSeconds: int64(resp.ExpiresIn.Seconds())}, nil
}

// VerifyOTP consumes the latest unused code for the account.
// @Summary Verify one-time code
// @Description Validates the code, marks it used and advances a pending account to verified.
// @Tags Account, Registration
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Verification payload"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse} "Code accepted"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Incorrect code"
// @Failure 404 {object} router.errorResponse "No active code"
// @Failure 410 {object} router.errorResponse "Code expired"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/account/otp/verify [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Email: req.Email,
		Code:  req.Code,
	}); err != nil {
		return nil, err
	}

	return VerifyOTPResponse{}, nil
}

// CompleteRegistration sets the first password and activates the account.
// @Summary Complete registration
// @Description Stores the password hash and activates a verified account.
// @Tags Account, Registration
// @Accept json
// @Produce json
// @Param request body CompleteRegistrationRequest true "Activation payload"
// @Success 200 {object} router.successResponse{data=CompleteRegistrationResponse} "Account activated"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 404 {object} router.errorResponse "Email not registered"
// @Failure 412 {object} router.errorResponse "Account not in verified state"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/account/register/complete [post]
func (h *HTTPEndpoint) CompleteRegistration(r *router.Request) (any, error) {
	var req CompleteRegistrationRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.CompleteRegistration(r.Context(), usecase.CompleteRegistrationInput{
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return nil, err
	}

	return CompleteRegistrationResponse{}, nil
}

// PasswordReset verifies a reset code and stores the new password.
// @Summary Reset password
// @Description Consumes the newest unused password-reset code and updates the credential.
// @Tags Account, Password
// @Accept json
// @Produce json
// @Param request body PasswordResetRequest true "Reset payload"
// @Success 200 {object} router.successResponse{data=PasswordResetResponse} "Password updated"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Incorrect code"
// @Failure 404 {object} router.errorResponse "No active code"
// @Failure 410 {object} router.errorResponse "Code expired"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/account/password/reset [post]
func (h *HTTPEndpoint) PasswordReset(r *router.Request) (any, error) {
	var req PasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		Email:       req.Email,
		Code:        req.Code,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return PasswordResetResponse{}, nil
}
