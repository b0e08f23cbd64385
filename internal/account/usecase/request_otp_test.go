package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/danukusuma/otpgate/internal/account/entity"
	"github.com/danukusuma/otpgate/internal/pkg/goerror"
	"github.com/danukusuma/otpgate/internal/pkg/idempotency"
)

func TestRequestOTPCreatesPendingRegistration(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	var gotUser entity.NewUser
	var gotRec entity.OTPRecord
	var gotCredential string
	repo := &fakeRepoDB{
		newRegistration: func(user entity.NewUser, rec entity.OTPRecord, credential string) error {
			gotUser, gotRec, gotCredential = user, rec, credential
			return nil
		},
	}
	msgr := &fakeMessaging{}

	uc := newTestUsecase(t, testDeps{repo: repo, msgr: msgr, clock: &fakeClock{now: now}})

	out, err := uc.RequestOTP(context.Background(), RequestOTPInput{
		Email:    "Budi@Example.COM",
		Purpose:  entity.OTPPurposeRegistration,
		FullName: "Budi Santoso",
		Phone:    "+628123456789",
	})
	if err != nil {
		t.Fatalf("RequestOTP returned error: %v", err)
	}

	if gotUser.Email != "budi@example.com" {
		t.Errorf("user email = %q, want normalized %q", gotUser.Email, "budi@example.com")
	}
	if gotUser.Status != entity.UserStatusPending {
		t.Errorf("new user status = %v, want pending", gotUser.Status)
	}
	if gotUser.Role != "Anggota" {
		t.Errorf("new user role = %q, want default role", gotUser.Role)
	}
	if gotCredential != "__OTP_PENDING__" {
		t.Errorf("credential = %q, want placeholder sentinel", gotCredential)
	}

	if gotRec.UserID != gotUser.ID {
		t.Errorf("otp record user id = %d, want %d", gotRec.UserID, gotUser.ID)
	}
	if gotRec.CodeHash != hashCode(t, testCode) {
		t.Error("otp record does not carry the hmac fingerprint of the issued code")
	}
	if !gotRec.CreatedAt.Equal(now) {
		t.Errorf("record created_at = %v, want %v", gotRec.CreatedAt, now)
	}
	if !gotRec.ExpiresAt.Equal(now.Add(10 * time.Minute)) {
		t.Errorf("record expires_at = %v, want created_at + 10m", gotRec.ExpiresAt)
	}
	if out.ExpiresIn != 10*time.Minute {
		t.Errorf("ExpiresIn = %v, want 10m", out.ExpiresIn)
	}

	if len(msgr.published) != 1 {
		t.Fatalf("published %d events, want 1", len(msgr.published))
	}
	if msgr.published[0].Code != testCode {
		t.Errorf("published code = %q, want the plaintext code", msgr.published[0].Code)
	}
}

func TestRequestOTPRateLimited(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	user := &entity.User{ID: 7, Email: "budi@example.com", FullName: "Budi Santoso", Status: entity.UserStatusPending}
	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) { return user, nil },
		getLatestOTP: func(string, entity.OTPPurpose) (*entity.OTPRecord, error) {
			return &entity.OTPRecord{ID: 1, UserID: 7, CreatedAt: now.Add(-30 * time.Second)}, nil
		},
	}
	msgr := &fakeMessaging{}

	uc := newTestUsecase(t, testDeps{repo: repo, msgr: msgr, clock: &fakeClock{now: now}})

	_, err := uc.RequestOTP(context.Background(), RequestOTPInput{
		Email:    "budi@example.com",
		Purpose:  entity.OTPPurposeRegistration,
		FullName: "Budi Santoso",
		Phone:    "+628123456789",
	})
	assertCode(t, err, goerror.CodeTooManyRequest)

	if len(msgr.published) != 0 {
		t.Errorf("published %d events on a rate-limited request, want 0", len(msgr.published))
	}
}

func TestRequestOTPResendAfterWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	user := &entity.User{ID: 7, Email: "budi@example.com", FullName: "Budi Santoso", Status: entity.UserStatusPending}
	var gotRec entity.OTPRecord
	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) { return user, nil },
		getLatestOTP: func(string, entity.OTPPurpose) (*entity.OTPRecord, error) {
			return &entity.OTPRecord{ID: 1, UserID: 7, CreatedAt: now.Add(-61 * time.Second)}, nil
		},
		newOTP: func(rec entity.OTPRecord) error {
			gotRec = rec
			return nil
		},
	}

	uc := newTestUsecase(t, testDeps{repo: repo, clock: &fakeClock{now: now}})

	_, err := uc.RequestOTP(context.Background(), RequestOTPInput{
		Email:    "budi@example.com",
		Purpose:  entity.OTPPurposeRegistration,
		FullName: "Budi Santoso",
		Phone:    "+628123456789",
	})
	if err != nil {
		t.Fatalf("resend for a pending account after the window returned error: %v", err)
	}

	if gotRec.UserID != user.ID {
		t.Errorf("new record user id = %d, want existing user %d", gotRec.UserID, user.ID)
	}
}

func TestRequestOTPRegistrationConflictWhenActive(t *testing.T) {
	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusActive}, nil
		},
	}

	uc := newTestUsecase(t, testDeps{repo: repo})

	_, err := uc.RequestOTP(context.Background(), RequestOTPInput{
		Email:    "budi@example.com",
		Purpose:  entity.OTPPurposeRegistration,
		FullName: "Budi Santoso",
		Phone:    "+628123456789",
	})
	assertCode(t, err, goerror.CodeConflict)
}

func TestRequestOTPPasswordResetUnknownEmail(t *testing.T) {
	uc := newTestUsecase(t, testDeps{repo: &fakeRepoDB{}})

	_, err := uc.RequestOTP(context.Background(), RequestOTPInput{
		Email:   "unknown@example.com",
		Purpose: entity.OTPPurposePasswordReset,
	})
	assertCode(t, err, goerror.CodeNotFound)
}

func TestRequestOTPPasswordResetHidesInactiveAccount(t *testing.T) {
	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusPending}, nil
		},
	}

	uc := newTestUsecase(t, testDeps{repo: repo})

	_, err := uc.RequestOTP(context.Background(), RequestOTPInput{
		Email:   "budi@example.com",
		Purpose: entity.OTPPurposePasswordReset,
	})
	assertCode(t, err, goerror.CodeNotFound)
}

func TestRequestOTPLockHeldRejects(t *testing.T) {
	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusActive}, nil
		},
	}
	idemp := &fakeIdemp{state: idempotency.StateInProgress}

	uc := newTestUsecase(t, testDeps{repo: repo, idemp: idemp})

	_, err := uc.RequestOTP(context.Background(), RequestOTPInput{
		Email:   "budi@example.com",
		Purpose: entity.OTPPurposePasswordReset,
	})
	assertCode(t, err, goerror.CodeTooManyRequest)
}

func TestRequestOTPStoreFailureIsServerError(t *testing.T) {
	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusActive}, nil
		},
		getLatestOTP: func(string, entity.OTPPurpose) (*entity.OTPRecord, error) {
			return nil, context.DeadlineExceeded
		},
	}
	idemp := &fakeIdemp{}

	uc := newTestUsecase(t, testDeps{repo: repo, idemp: idemp})

	_, err := uc.RequestOTP(context.Background(), RequestOTPInput{
		Email:   "budi@example.com",
		Purpose: entity.OTPPurposePasswordReset,
	})
	assertCode(t, err, goerror.CodeInternal)

	if len(idemp.failedKeys) != 1 {
		t.Errorf("issuance lock released %d times, want 1", len(idemp.failedKeys))
	}
}

func TestRequestOTPValidation(t *testing.T) {
	uc := newTestUsecase(t, testDeps{})

	cases := []struct {
		name string
		in   RequestOTPInput
	}{
		{
			name: "missing email",
			in:   RequestOTPInput{Purpose: entity.OTPPurposeRegistration, FullName: "Budi Santoso", Phone: "+628123456789"},
		},
		{
			name: "registration without profile",
			in:   RequestOTPInput{Email: "budi@example.com", Purpose: entity.OTPPurposeRegistration},
		},
		{
			name: "bad phone",
			in:   RequestOTPInput{Email: "budi@example.com", Purpose: entity.OTPPurposeRegistration, FullName: "Budi Santoso", Phone: "abc"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RequestOTP(context.Background(), tc.in)
			assertCode(t, err, goerror.CodeInvalidInput)
		})
	}
}
