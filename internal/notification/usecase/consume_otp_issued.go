package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/danukusuma/otpgate/internal/pkg/mail"
	"github.com/samber/lo"
	"github.com/sethvargo/go-retry"
)

type ConsumeOTPIssuedInput struct {
	UserID           int64  `validate:"required,gt=0"`
	Email            string `validate:"required,email"`
	FullName         string `validate:"omitempty,max=100"`
	Purpose          string `validate:"required,oneof=registration password_reset"`
	Code             string `validate:"required,numeric"`
	ExpiresInSeconds int64  `validate:"required,gt=0"`
}

const registrationSubject = "Your %s verification code"
const passwordResetSubject = "Your %s password reset code"

var registrationTemplate = template.Must(template.New("registration").Parse(`
<p>Hi {{.full_name}},</p>
<p>Welcome to {{.app_name}}. Use this code to verify your email address:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px;">{{.code}}</p>
<p>The code expires in {{.expires_in_minutes}} minutes. If you did not sign up, you can ignore this email.</p>
`))

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`
<p>Hi {{.full_name}},</p>
<p>We received a request to reset your {{.app_name}} password. Use this code to continue:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px;">{{.code}}</p>
<p>The code expires in {{.expires_in_minutes}} minutes. If you did not request a reset, you can ignore this email.</p>
`))

// ConsumeOTPIssued delivers the issued code by email. Delivery is best
// effort with bounded retries; a malformed event is dropped, not requeued.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in ConsumeOTPIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid otp issued event", "user_id", in.UserID, "error", err)
		return nil
	}

	tpl := registrationTemplate
	subject := registrationSubject
	if in.Purpose == "password_reset" {
		tpl = passwordResetTemplate
		subject = passwordResetSubject
	}

	data := lo.Assign(s.baseEmailTemplateData(), map[string]any{
		"full_name":          in.FullName,
		"code":               in.Code,
		"expires_in_minutes": in.ExpiresInSeconds / 60,
	})

	var body bytes.Buffer
	if err := tpl.Execute(&body, data); err != nil {
		slog.ErrorContext(ctx, "failed to render otp email", "user_id", in.UserID, "error", err)
		return nil
	}

	msg := mail.Message{
		To:       []string{in.Email},
		Subject:  fmt.Sprintf(subject, s.cfg.GetString("app.name")),
		HTMLBody: body.String(),
	}

	maxRetries := s.cfg.GetUint64("modules.notification.email_max_retries")
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.repoMail.Send(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "user_id", in.UserID, "error", err)
	}

	return nil
}
