package event

const OTPIssuedDestination string = "account_otp_issued"
const OTPIssuedConsumerNotification string = "account_otp_issued_notification"

type OTPIssuedMessage struct {
	UserID           int64  `json:"user_id"`
	Email            string `json:"email"`
	FullName         string `json:"full_name"`
	Purpose          string `json:"purpose"`
	Code             string `json:"code"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
}
