package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danukusuma/otpgate/internal/pkg/instrument"
	"github.com/danukusuma/otpgate/internal/pkg/mail"
	"github.com/danukusuma/otpgate/internal/pkg/validator"
)

type fakeMail struct {
	sent []mail.Message
	errs []error
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	f.sent = append(f.sent, msg)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return err
	}
	return nil
}

type fakeConfig map[string]any

func (f fakeConfig) Close() error                    { return nil }
func (f fakeConfig) GetSecond(string) time.Duration  { return 0 }
func (f fakeConfig) GetMinute(string) time.Duration  { return 0 }
func (f fakeConfig) GetHour(string) time.Duration    { return 0 }
func (f fakeConfig) GetDay(string) time.Duration     { return 0 }
func (f fakeConfig) GetInt(string) int               { return 0 }
func (f fakeConfig) GetInt32(string) int32           { return 0 }
func (f fakeConfig) GetInt64(string) int64           { return 0 }
func (f fakeConfig) GetUint(string) uint             { return 0 }
func (f fakeConfig) GetUint16(string) uint16         { return 0 }
func (f fakeConfig) GetUint32(string) uint32         { return 0 }
func (f fakeConfig) GetFloat32(string) float32       { return 0 }
func (f fakeConfig) GetFloat64(string) float64       { return 0 }
func (f fakeConfig) GetBool(string) bool             { return false }
func (f fakeConfig) GetBinary(string) []byte         { return nil }
func (f fakeConfig) GetArray(string) []string        { return nil }
func (f fakeConfig) GetMap(string) map[string]string { return nil }

func (f fakeConfig) GetUint64(key string) uint64 {
	if v, ok := f[key].(int); ok {
		return uint64(v)
	}
	return 0
}

func (f fakeConfig) GetString(key string) string {
	if v, ok := f[key].(string); ok {
		return v
	}
	return ""
}

func newTestUsecase(t *testing.T, repo *fakeMail) *Usecase {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	return New(Dependency{
		RepoMail:  repo,
		Validator: v10,
		Config: fakeConfig{
			"app.name":                               "OTPGate",
			"app.web":                                "http://localhost:3000",
			"modules.notification.email_max_retries": 2,
		},
		Instrument: instrument.NewNoop(),
	})
}

func validInput() ConsumeOTPIssuedInput {
	return ConsumeOTPIssuedInput{
		UserID:           7,
		Email:            "budi@example.com",
		FullName:         "Budi Santoso",
		Purpose:          "registration",
		Code:             "123456",
		ExpiresInSeconds: 600,
	}
}

func TestConsumeOTPIssuedSendsRegistrationEmail(t *testing.T) {
	repo := &fakeMail{}
	uc := newTestUsecase(t, repo)

	if err := uc.ConsumeOTPIssued(context.Background(), validInput()); err != nil {
		t.Fatalf("ConsumeOTPIssued returned error: %v", err)
	}

	if len(repo.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(repo.sent))
	}

	msg := repo.sent[0]
	if len(msg.To) != 1 || msg.To[0] != "budi@example.com" {
		t.Errorf("email recipients = %v, want the event email", msg.To)
	}
	if msg.Subject != "Your OTPGate verification code" {
		t.Errorf("subject = %q, want the registration subject", msg.Subject)
	}
	if !strings.Contains(msg.HTMLBody, "123456") {
		t.Error("email body does not contain the code")
	}
	if !strings.Contains(msg.HTMLBody, "10 minutes") {
		t.Error("email body does not state the expiry in minutes")
	}
}

func TestConsumeOTPIssuedSendsPasswordResetEmail(t *testing.T) {
	repo := &fakeMail{}
	uc := newTestUsecase(t, repo)

	in := validInput()
	in.Purpose = "password_reset"

	if err := uc.ConsumeOTPIssued(context.Background(), in); err != nil {
		t.Fatalf("ConsumeOTPIssued returned error: %v", err)
	}

	if len(repo.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(repo.sent))
	}
	if repo.sent[0].Subject != "Your OTPGate password reset code" {
		t.Errorf("subject = %q, want the password reset subject", repo.sent[0].Subject)
	}
}

func TestConsumeOTPIssuedDropsInvalidEvent(t *testing.T) {
	repo := &fakeMail{}
	uc := newTestUsecase(t, repo)

	in := validInput()
	in.Purpose = "unknown"

	if err := uc.ConsumeOTPIssued(context.Background(), in); err != nil {
		t.Fatalf("invalid event must be dropped without error, got: %v", err)
	}
	if len(repo.sent) != 0 {
		t.Errorf("sent %d emails for an invalid event, want 0", len(repo.sent))
	}
}

func TestConsumeOTPIssuedRetriesDelivery(t *testing.T) {
	repo := &fakeMail{errs: []error{errors.New("smtp unavailable")}}
	uc := newTestUsecase(t, repo)

	if err := uc.ConsumeOTPIssued(context.Background(), validInput()); err != nil {
		t.Fatalf("ConsumeOTPIssued returned error: %v", err)
	}

	if len(repo.sent) != 2 {
		t.Errorf("sent attempts = %d, want 2 (initial + retry)", len(repo.sent))
	}
}

func TestConsumeOTPIssuedSwallowsExhaustedRetries(t *testing.T) {
	boom := errors.New("smtp unavailable")
	repo := &fakeMail{errs: []error{boom, boom, boom}}
	uc := newTestUsecase(t, repo)

	if err := uc.ConsumeOTPIssued(context.Background(), validInput()); err != nil {
		t.Fatalf("delivery failure must not requeue the event, got: %v", err)
	}

	if len(repo.sent) != 3 {
		t.Errorf("sent attempts = %d, want 3 (initial + 2 retries)", len(repo.sent))
	}
}
