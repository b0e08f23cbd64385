package db

import (
	"context"

	"github.com/danukusuma/otpgate/internal/account/entity"
	"github.com/danukusuma/otpgate/internal/pkg/goerror"
	"github.com/jackc/pgx/v5"
)

const insertOTP = `INSERT INTO account_otps
	(id, user_id, email, purpose, code_hash, created_at, expires_at, used, metadata)
	VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)`

// NewRegistration creates the user row, the placeholder credential and the
// first code in one transaction.
func (s *DB) NewRegistration(ctx context.Context, user entity.NewUser, rec entity.OTPRecord, credential string) (err error) {
	ctx, span := s.startSpan(ctx, "NewRegistration")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer s.rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `INSERT INTO account_users
		(id, email, full_name, phone, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		user.ID, user.Email, user.FullName, user.Phone, user.Role, int16(user.Status), rec.CreatedAt,
	); err != nil {
		return s.mapError(err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO account_user_credentials (user_id, password, updated_at)
		VALUES ($1, $2, $3)`,
		user.ID, credential, rec.CreatedAt,
	); err != nil {
		return s.mapError(err)
	}

	if _, err := tx.Exec(ctx, insertOTP,
		rec.ID, rec.UserID, rec.Email, int16(rec.Purpose), rec.CodeHash,
		rec.CreatedAt, rec.ExpiresAt, rec.Metadata,
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// NewOTP purges already-expired codes for the identity and purpose, then
// inserts the fresh one. Unexpired history stays for the rate-limit lookup.
func (s *DB) NewOTP(ctx context.Context, rec entity.OTPRecord) (err error) {
	ctx, span := s.startSpan(ctx, "NewOTP")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer s.rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM account_otps
		WHERE email = $1 AND purpose = $2 AND expires_at < $3`,
		rec.Email, int16(rec.Purpose), rec.CreatedAt,
	); err != nil {
		return s.mapError(err)
	}

	if _, err := tx.Exec(ctx, insertOTP,
		rec.ID, rec.UserID, rec.Email, int16(rec.Purpose), rec.CodeHash,
		rec.CreatedAt, rec.ExpiresAt, rec.Metadata,
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// ConsumeOTP flips used=false→true for exactly one caller and advances the
// account status in the same transaction. A zero-row update means the record
// was already spent and surfaces as goerror.ErrNotFound.
func (s *DB) ConsumeOTP(ctx context.Context, data entity.ConsumeOTP) (err error) {
	ctx, span := s.startSpan(ctx, "ConsumeOTP")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer s.rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `UPDATE account_otps SET used = TRUE WHERE id = $1 AND used = FALSE`, data.RecordID)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	// no-op when the account already moved past the old status
	if _, err := tx.Exec(ctx, `UPDATE account_users SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3`,
		int16(data.NewStatus), data.UserID, int16(data.OldStatus),
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// ActivateUser conditionally advances the status and stores the credential
// hash. goerror.ErrNotFound reports a failed status precondition.
func (s *DB) ActivateUser(ctx context.Context, userID int64, oldStatus, newStatus entity.UserStatus, credential string) (err error) {
	ctx, span := s.startSpan(ctx, "ActivateUser")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer s.rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `UPDATE account_users SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3`,
		int16(newStatus), userID, int16(oldStatus),
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `UPDATE account_user_credentials SET password = $1, updated_at = now()
		WHERE user_id = $2`,
		credential, userID,
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// ResetUserCredential spends the reset code and swaps the credential hash
// atomically. Status is left alone.
func (s *DB) ResetUserCredential(ctx context.Context, recordID, userID int64, credential string) (err error) {
	ctx, span := s.startSpan(ctx, "ResetUserCredential")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer s.rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `UPDATE account_otps SET used = TRUE WHERE id = $1 AND used = FALSE`, recordID)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `UPDATE account_user_credentials SET password = $1, updated_at = now()
		WHERE user_id = $2`,
		credential, userID,
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
