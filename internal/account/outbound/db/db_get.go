package db

import (
	"context"

	"github.com/danukusuma/otpgate/internal/account/entity"
)

const userColumns = `id, email, full_name, phone, role, status, created_at, updated_at`
const otpColumns = `id, user_id, email, purpose, code_hash, created_at, expires_at, used`

func (s *DB) GetUserByEmail(ctx context.Context, email string) (user *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM account_users WHERE email = $1`, email)

	var u entity.User
	var status int16
	if err = s.mapError(row.Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role, &status,
		&u.CreatedAt, &u.UpdatedAt)); err != nil {
		return nil, err
	}
	u.Status = entity.UserStatus(status)

	return &u, nil
}

func (s *DB) GetLatestOTP(ctx context.Context, email string, purpose entity.OTPPurpose) (rec *entity.OTPRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestOTP")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `SELECT `+otpColumns+` FROM account_otps
		WHERE email = $1 AND purpose = $2
		ORDER BY created_at DESC LIMIT 1`, email, int16(purpose))

	return s.scanOTP(row)
}

func (s *DB) GetLatestUnusedOTP(ctx context.Context, email string) (rec *entity.OTPRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestUnusedOTP")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `SELECT `+otpColumns+` FROM account_otps
		WHERE email = $1 AND used = FALSE
		ORDER BY created_at DESC LIMIT 1`, email)

	return s.scanOTP(row)
}

func (s *DB) GetLatestUnusedOTPByPurpose(ctx context.Context, email string, purpose entity.OTPPurpose) (rec *entity.OTPRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestUnusedOTPByPurpose")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `SELECT `+otpColumns+` FROM account_otps
		WHERE email = $1 AND purpose = $2 AND used = FALSE
		ORDER BY created_at DESC LIMIT 1`, email, int16(purpose))

	return s.scanOTP(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *DB) scanOTP(row rowScanner) (*entity.OTPRecord, error) {
	var rec entity.OTPRecord
	var purpose int16
	if err := s.mapError(row.Scan(&rec.ID, &rec.UserID, &rec.Email, &purpose, &rec.CodeHash,
		&rec.CreatedAt, &rec.ExpiresAt, &rec.Used)); err != nil {
		return nil, err
	}
	rec.Purpose = entity.OTPPurpose(purpose)

	return &rec, nil
}
