package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danukusuma/otpgate/internal/account/entity"
	"github.com/danukusuma/otpgate/internal/pkg/goerror"
	"github.com/danukusuma/otpgate/internal/pkg/hash"
	"github.com/danukusuma/otpgate/internal/pkg/idempotency"
	"github.com/danukusuma/otpgate/internal/pkg/instrument"
	"github.com/danukusuma/otpgate/internal/pkg/validator"
)

const testHMACSecret = "unit-test-secret"
const testCode = "123456"

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

type fakeCodeGen struct {
	code string
	err  error
}

func (f *fakeCodeGen) Generate() (string, error) { return f.code, f.err }

type fakeNumberID struct {
	next int64
}

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fakeIdemp struct {
	state      idempotency.State
	acquireErr error
	acquired   []string
	failedKeys []string
}

func (f *fakeIdemp) Acquire(_ context.Context, key string, _ time.Duration) (idempotency.State, error) {
	f.acquired = append(f.acquired, key)
	if f.acquireErr != nil {
		return idempotency.StateError, f.acquireErr
	}
	if f.state == "" {
		return idempotency.StateNone, nil
	}
	return f.state, nil
}

func (f *fakeIdemp) MarkCompleted(context.Context, string, time.Duration) error { return nil }

func (f *fakeIdemp) MarkFailed(_ context.Context, key string, _ time.Duration) error {
	f.failedKeys = append(f.failedKeys, key)
	return nil
}

func (f *fakeIdemp) Exec(ctx context.Context, _ string, fn func(context.Context) error, _ ...idempotency.Option) error {
	return fn(ctx)
}

type fakeMessaging struct {
	published []OTPIssuedEvent
	err       error
}

func (f *fakeMessaging) PublishOTPIssued(_ context.Context, msg OTPIssuedEvent) error {
	f.published = append(f.published, msg)
	return f.err
}

type fakeRepoDB struct {
	getUserByEmail              func(email string) (*entity.User, error)
	getLatestOTP                func(email string, purpose entity.OTPPurpose) (*entity.OTPRecord, error)
	getLatestUnusedOTP          func(email string) (*entity.OTPRecord, error)
	getLatestUnusedOTPByPurpose func(email string, purpose entity.OTPPurpose) (*entity.OTPRecord, error)
	newRegistration             func(user entity.NewUser, rec entity.OTPRecord, credential string) error
	newOTP                      func(rec entity.OTPRecord) error
	consumeOTP                  func(data entity.ConsumeOTP) error
	activateUser                func(userID int64, oldStatus, newStatus entity.UserStatus, credential string) error
	resetUserCredential         func(recordID, userID int64, credential string) error
}

func (f *fakeRepoDB) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	if f.getUserByEmail == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getUserByEmail(email)
}

func (f *fakeRepoDB) GetLatestOTP(_ context.Context, email string, purpose entity.OTPPurpose) (*entity.OTPRecord, error) {
	if f.getLatestOTP == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getLatestOTP(email, purpose)
}

func (f *fakeRepoDB) GetLatestUnusedOTP(_ context.Context, email string) (*entity.OTPRecord, error) {
	if f.getLatestUnusedOTP == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getLatestUnusedOTP(email)
}

func (f *fakeRepoDB) GetLatestUnusedOTPByPurpose(_ context.Context, email string, purpose entity.OTPPurpose) (*entity.OTPRecord, error) {
	if f.getLatestUnusedOTPByPurpose == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getLatestUnusedOTPByPurpose(email, purpose)
}

func (f *fakeRepoDB) NewRegistration(_ context.Context, user entity.NewUser, rec entity.OTPRecord, credential string) error {
	if f.newRegistration == nil {
		panic("unexpected call to NewRegistration")
	}
	return f.newRegistration(user, rec, credential)
}

func (f *fakeRepoDB) NewOTP(_ context.Context, rec entity.OTPRecord) error {
	if f.newOTP == nil {
		panic("unexpected call to NewOTP")
	}
	return f.newOTP(rec)
}

func (f *fakeRepoDB) ConsumeOTP(_ context.Context, data entity.ConsumeOTP) error {
	if f.consumeOTP == nil {
		panic("unexpected call to ConsumeOTP")
	}
	return f.consumeOTP(data)
}

func (f *fakeRepoDB) ActivateUser(_ context.Context, userID int64, oldStatus, newStatus entity.UserStatus, credential string) error {
	if f.activateUser == nil {
		panic("unexpected call to ActivateUser")
	}
	return f.activateUser(userID, oldStatus, newStatus, credential)
}

func (f *fakeRepoDB) ResetUserCredential(_ context.Context, recordID, userID int64, credential string) error {
	if f.resetUserCredential == nil {
		panic("unexpected call to ResetUserCredential")
	}
	return f.resetUserCredential(recordID, userID, credential)
}

type fakeConfig map[string]any

func (f fakeConfig) Close() error { return nil }

func (f fakeConfig) GetSecond(key string) time.Duration {
	return time.Duration(f.GetInt64(key)) * time.Second
}

func (f fakeConfig) GetMinute(key string) time.Duration {
	return time.Duration(f.GetInt64(key)) * time.Minute
}

func (f fakeConfig) GetHour(key string) time.Duration {
	return time.Duration(f.GetInt64(key)) * time.Hour
}

func (f fakeConfig) GetDay(key string) time.Duration {
	return time.Duration(f.GetInt64(key)) * 24 * time.Hour
}

func (f fakeConfig) GetInt(key string) int     { return int(f.GetInt64(key)) }
func (f fakeConfig) GetInt32(key string) int32 { return int32(f.GetInt64(key)) }

func (f fakeConfig) GetInt64(key string) int64 {
	switch v := f[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

func (f fakeConfig) GetUint(key string) uint     { return uint(f.GetInt64(key)) }
func (f fakeConfig) GetUint16(key string) uint16 { return uint16(f.GetInt64(key)) }
func (f fakeConfig) GetUint32(key string) uint32 { return uint32(f.GetInt64(key)) }
func (f fakeConfig) GetUint64(key string) uint64 { return uint64(f.GetInt64(key)) }

func (f fakeConfig) GetFloat32(key string) float32 { return float32(f.GetFloat64(key)) }

func (f fakeConfig) GetFloat64(key string) float64 {
	if v, ok := f[key].(float64); ok {
		return v
	}
	return 0
}

func (f fakeConfig) GetBool(key string) bool {
	if v, ok := f[key].(bool); ok {
		return v
	}
	return false
}

func (f fakeConfig) GetString(key string) string {
	if v, ok := f[key].(string); ok {
		return v
	}
	return ""
}

func (f fakeConfig) GetBinary(key string) []byte {
	if v, ok := f[key].([]byte); ok {
		return v
	}
	return nil
}

func (f fakeConfig) GetArray(key string) []string {
	if v, ok := f[key].([]string); ok {
		return v
	}
	return nil
}

func (f fakeConfig) GetMap(key string) map[string]string {
	if v, ok := f[key].(map[string]string); ok {
		return v
	}
	return nil
}

func testConfig() fakeConfig {
	return fakeConfig{
		"modules.account.otp_window_seconds":  60,
		"modules.account.otp_ttl_minutes":     10,
		"modules.account.default_role":        "Anggota",
		"modules.account.credential_sentinel": "__OTP_PENDING__",
	}
}

type testDeps struct {
	repo  *fakeRepoDB
	msgr  *fakeMessaging
	idemp *fakeIdemp
	clock *fakeClock
	hmac  hash.Hash
}

func newTestUsecase(t *testing.T, deps testDeps) *Usecase {
	t.Helper()

	if deps.repo == nil {
		deps.repo = &fakeRepoDB{}
	}
	if deps.msgr == nil {
		deps.msgr = &fakeMessaging{}
	}
	if deps.idemp == nil {
		deps.idemp = &fakeIdemp{}
	}
	if deps.clock == nil {
		deps.clock = &fakeClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	}
	if deps.hmac == nil {
		deps.hmac = hash.NewHMACSHA256(testHMACSecret)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	return New(Dependency{
		RepoDB:        deps.repo,
		RepoMessaging: deps.msgr,
		Idempotency:   deps.idemp,
		Validator:     v10,
		Config:        testConfig(),
		HMAC:          deps.hmac,
		Password:      hash.NewBcrypt(4, ""),
		CodeGen:       &fakeCodeGen{code: testCode},
		UID:           &fakeNumberID{},
		Clock:         deps.clock,
		Instrument:    instrument.NewNoop(),
	})
}

func hashCode(t *testing.T, code string) string {
	t.Helper()

	h, err := hash.NewHMACSHA256(testHMACSecret).Hash(code)
	if err != nil {
		t.Fatalf("failed to hash code: %v", err)
	}
	return string(h)
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error with code %v, got nil", want)
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %T: %v", err, err)
	}
	if gerr.Code() != want {
		t.Fatalf("error code = %v, want %v (err: %v)", gerr.Code(), want, err)
	}
}
