package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/danukusuma/otpgate/internal/account/entity"
	"github.com/danukusuma/otpgate/internal/pkg/goerror"
	"github.com/danukusuma/otpgate/internal/pkg/hash"
)

func TestPasswordResetStoresNewCredential(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	var gotRecordID, gotUserID int64
	var gotCredential string
	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusActive}, nil
		},
		getLatestUnusedOTPByPurpose: func(_ string, purpose entity.OTPPurpose) (*entity.OTPRecord, error) {
			if purpose != entity.OTPPurposePasswordReset {
				t.Errorf("looked up purpose %v, want password_reset", purpose)
			}
			return &entity.OTPRecord{
				ID:        42,
				UserID:    7,
				CodeHash:  hashCode(t, testCode),
				ExpiresAt: now.Add(9 * time.Minute),
			}, nil
		},
		resetUserCredential: func(recordID, userID int64, credential string) error {
			gotRecordID, gotUserID, gotCredential = recordID, userID, credential
			return nil
		},
	}

	uc := newTestUsecase(t, testDeps{repo: repo, clock: &fakeClock{now: now}})

	err := uc.PasswordReset(context.Background(), PasswordResetInput{
		Email:       "Budi@Example.COM",
		Code:        testCode,
		NewPassword: "rahasia-baru",
	})
	if err != nil {
		t.Fatalf("PasswordReset returned error: %v", err)
	}

	if gotRecordID != 42 || gotUserID != 7 {
		t.Errorf("reset record=%d user=%d, want record=42 user=7", gotRecordID, gotUserID)
	}
	if !hash.NewBcrypt(4, "").Verify(gotCredential, "rahasia-baru") {
		t.Error("stored credential does not verify against the new password")
	}
}

func TestPasswordResetUnknownOrInactiveAccount(t *testing.T) {
	cases := []struct {
		name string
		user *entity.User
	}{
		{name: "unknown email", user: nil},
		{name: "pending account", user: &entity.User{ID: 7, Status: entity.UserStatusPending}},
		{name: "verified account", user: &entity.User{ID: 7, Status: entity.UserStatusVerified}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepoDB{}
			if tc.user != nil {
				repo.getUserByEmail = func(string) (*entity.User, error) { return tc.user, nil }
			}

			uc := newTestUsecase(t, testDeps{repo: repo})

			err := uc.PasswordReset(context.Background(), PasswordResetInput{
				Email:       "budi@example.com",
				Code:        testCode,
				NewPassword: "rahasia-baru",
			})
			assertCode(t, err, goerror.CodeNotFound)
		})
	}
}

func TestPasswordResetNoUnusedRecord(t *testing.T) {
	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusActive}, nil
		},
	}

	uc := newTestUsecase(t, testDeps{repo: repo})

	err := uc.PasswordReset(context.Background(), PasswordResetInput{
		Email:       "budi@example.com",
		Code:        testCode,
		NewPassword: "rahasia-baru",
	})
	assertCode(t, err, goerror.CodeNotFound)
}

func TestPasswordResetIncorrectCode(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusActive}, nil
		},
		getLatestUnusedOTPByPurpose: func(string, entity.OTPPurpose) (*entity.OTPRecord, error) {
			return &entity.OTPRecord{
				ID:        42,
				UserID:    7,
				CodeHash:  hashCode(t, testCode),
				ExpiresAt: now.Add(9 * time.Minute),
			}, nil
		},
		// resetUserCredential deliberately unset: a mismatch must not change anything
	}

	uc := newTestUsecase(t, testDeps{repo: repo, clock: &fakeClock{now: now}})

	err := uc.PasswordReset(context.Background(), PasswordResetInput{
		Email:       "budi@example.com",
		Code:        "000000",
		NewPassword: "rahasia-baru",
	})
	assertCode(t, err, goerror.CodeUnauthorized)
}

func TestPasswordResetExpiredCode(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusActive}, nil
		},
		getLatestUnusedOTPByPurpose: func(string, entity.OTPPurpose) (*entity.OTPRecord, error) {
			return &entity.OTPRecord{
				ID:        42,
				UserID:    7,
				CodeHash:  hashCode(t, testCode),
				ExpiresAt: now.Add(-time.Minute),
			}, nil
		},
	}

	uc := newTestUsecase(t, testDeps{repo: repo, clock: &fakeClock{now: now}})

	err := uc.PasswordReset(context.Background(), PasswordResetInput{
		Email:       "budi@example.com",
		Code:        testCode,
		NewPassword: "rahasia-baru",
	})
	assertCode(t, err, goerror.CodeExpired)
}

func TestPasswordResetLostRaceReportsNotFound(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusActive}, nil
		},
		getLatestUnusedOTPByPurpose: func(string, entity.OTPPurpose) (*entity.OTPRecord, error) {
			return &entity.OTPRecord{
				ID:        42,
				UserID:    7,
				CodeHash:  hashCode(t, testCode),
				ExpiresAt: now.Add(9 * time.Minute),
			}, nil
		},
		resetUserCredential: func(int64, int64, string) error {
			return goerror.ErrNotFound
		},
	}

	uc := newTestUsecase(t, testDeps{repo: repo, clock: &fakeClock{now: now}})

	err := uc.PasswordReset(context.Background(), PasswordResetInput{
		Email:       "budi@example.com",
		Code:        testCode,
		NewPassword: "rahasia-baru",
	})
	assertCode(t, err, goerror.CodeNotFound)
}
