package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/danukusuma/otpgate/internal/account/entity"
	"github.com/danukusuma/otpgate/internal/pkg/goerror"
)

func TestVerifyOTPConsumesAndAdvancesStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	var consumed entity.ConsumeOTP
	repo := &fakeRepoDB{
		getLatestUnusedOTP: func(string) (*entity.OTPRecord, error) {
			return &entity.OTPRecord{
				ID:        42,
				UserID:    7,
				CodeHash:  hashCode(t, testCode),
				CreatedAt: now.Add(-time.Minute),
				ExpiresAt: now.Add(9 * time.Minute),
			}, nil
		},
		consumeOTP: func(data entity.ConsumeOTP) error {
			consumed = data
			return nil
		},
	}

	uc := newTestUsecase(t, testDeps{repo: repo, clock: &fakeClock{now: now}})

	if err := uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "budi@example.com", Code: testCode}); err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}

	if consumed.RecordID != 42 || consumed.UserID != 7 {
		t.Errorf("consumed record=%d user=%d, want record=42 user=7", consumed.RecordID, consumed.UserID)
	}
	if consumed.OldStatus != entity.UserStatusPending || consumed.NewStatus != entity.UserStatusVerified {
		t.Errorf("status advance %v→%v, want pending→verified", consumed.OldStatus, consumed.NewStatus)
	}
}

func TestVerifyOTPNoUnusedRecord(t *testing.T) {
	uc := newTestUsecase(t, testDeps{repo: &fakeRepoDB{}})

	err := uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "budi@example.com", Code: testCode})
	assertCode(t, err, goerror.CodeNotFound)
}

func TestVerifyOTPMismatchKeepsRecordUnused(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	repo := &fakeRepoDB{
		getLatestUnusedOTP: func(string) (*entity.OTPRecord, error) {
			return &entity.OTPRecord{
				ID:        42,
				UserID:    7,
				CodeHash:  hashCode(t, testCode),
				ExpiresAt: now.Add(9 * time.Minute),
			}, nil
		},
		// consumeOTP deliberately unset: a mismatch must not touch the record
	}

	uc := newTestUsecase(t, testDeps{repo: repo, clock: &fakeClock{now: now}})

	err := uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "budi@example.com", Code: "000000"})
	assertCode(t, err, goerror.CodeUnauthorized)
}

func TestVerifyOTPExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	repo := &fakeRepoDB{
		getLatestUnusedOTP: func(string) (*entity.OTPRecord, error) {
			return &entity.OTPRecord{
				ID:        42,
				UserID:    7,
				CodeHash:  hashCode(t, testCode),
				CreatedAt: now.Add(-11 * time.Minute),
				ExpiresAt: now.Add(-time.Minute),
			}, nil
		},
		// consumeOTP deliberately unset: expiry must not mark the record used
	}

	uc := newTestUsecase(t, testDeps{repo: repo, clock: &fakeClock{now: now}})

	err := uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "budi@example.com", Code: testCode})
	assertCode(t, err, goerror.CodeExpired)
}

func TestVerifyOTPLostRaceReportsNotFound(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	repo := &fakeRepoDB{
		getLatestUnusedOTP: func(string) (*entity.OTPRecord, error) {
			return &entity.OTPRecord{
				ID:        42,
				UserID:    7,
				CodeHash:  hashCode(t, testCode),
				ExpiresAt: now.Add(9 * time.Minute),
			}, nil
		},
		consumeOTP: func(entity.ConsumeOTP) error {
			// a concurrent caller spent the record first
			return goerror.ErrNotFound
		},
	}

	uc := newTestUsecase(t, testDeps{repo: repo, clock: &fakeClock{now: now}})

	err := uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "budi@example.com", Code: testCode})
	assertCode(t, err, goerror.CodeNotFound)
}
