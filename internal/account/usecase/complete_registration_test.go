package usecase

import (
	"context"
	"testing"

	"github.com/danukusuma/otpgate/internal/account/entity"
	"github.com/danukusuma/otpgate/internal/pkg/goerror"
	"github.com/danukusuma/otpgate/internal/pkg/hash"
)

func TestCompleteRegistrationActivatesVerifiedAccount(t *testing.T) {
	var gotUserID int64
	var gotOld, gotNew entity.UserStatus
	var gotCredential string
	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusVerified}, nil
		},
		activateUser: func(userID int64, oldStatus, newStatus entity.UserStatus, credential string) error {
			gotUserID, gotOld, gotNew, gotCredential = userID, oldStatus, newStatus, credential
			return nil
		},
	}

	uc := newTestUsecase(t, testDeps{repo: repo})

	err := uc.CompleteRegistration(context.Background(), CompleteRegistrationInput{
		Email:    "budi@example.com",
		Password: "rahasia-123",
	})
	if err != nil {
		t.Fatalf("CompleteRegistration returned error: %v", err)
	}

	if gotUserID != 7 {
		t.Errorf("activated user id = %d, want 7", gotUserID)
	}
	if gotOld != entity.UserStatusVerified || gotNew != entity.UserStatusActive {
		t.Errorf("status transition %v→%v, want verified→active", gotOld, gotNew)
	}
	if gotCredential == "rahasia-123" || gotCredential == "" {
		t.Error("stored credential must be a hash, not the plaintext password")
	}
	if !hash.NewBcrypt(4, "").Verify(gotCredential, "rahasia-123") {
		t.Error("stored credential does not verify against the submitted password")
	}
}

func TestCompleteRegistrationAlreadyActive(t *testing.T) {
	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusActive}, nil
		},
	}

	uc := newTestUsecase(t, testDeps{repo: repo})

	err := uc.CompleteRegistration(context.Background(), CompleteRegistrationInput{
		Email:    "budi@example.com",
		Password: "rahasia-123",
	})
	assertCode(t, err, goerror.CodePrecondition)
}

func TestCompleteRegistrationNotVerifiedYet(t *testing.T) {
	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusPending}, nil
		},
	}

	uc := newTestUsecase(t, testDeps{repo: repo})

	err := uc.CompleteRegistration(context.Background(), CompleteRegistrationInput{
		Email:    "budi@example.com",
		Password: "rahasia-123",
	})
	assertCode(t, err, goerror.CodePrecondition)
}

func TestCompleteRegistrationUnknownEmail(t *testing.T) {
	uc := newTestUsecase(t, testDeps{repo: &fakeRepoDB{}})

	err := uc.CompleteRegistration(context.Background(), CompleteRegistrationInput{
		Email:    "unknown@example.com",
		Password: "rahasia-123",
	})
	assertCode(t, err, goerror.CodeNotFound)
}

func TestCompleteRegistrationPasswordPolicy(t *testing.T) {
	uc := newTestUsecase(t, testDeps{})

	err := uc.CompleteRegistration(context.Background(), CompleteRegistrationInput{
		Email:    "budi@example.com",
		Password: "abc",
	})
	assertCode(t, err, goerror.CodeInvalidInput)
}

func TestCompleteRegistrationRacedStatusChange(t *testing.T) {
	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusVerified}, nil
		},
		activateUser: func(int64, entity.UserStatus, entity.UserStatus, string) error {
			// conditional update matched zero rows
			return goerror.ErrNotFound
		},
	}

	uc := newTestUsecase(t, testDeps{repo: repo})

	err := uc.CompleteRegistration(context.Background(), CompleteRegistrationInput{
		Email:    "budi@example.com",
		Password: "rahasia-123",
	})
	assertCode(t, err, goerror.CodePrecondition)
}
