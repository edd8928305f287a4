package domain

// OTPPurpose names one of the two independent OTP lifecycles a user record
// carries. A code issued for one purpose can never satisfy the other.
type OTPPurpose string

const (
	PurposeVerify OTPPurpose = "verify"
	PurposeReset  OTPPurpose = "reset"
)

// OTP returns the stored code and expiry for the given purpose.
func (u *User) OTP(p OTPPurpose) (code string, expiresAt int64) {
	if p == PurposeReset {
		return u.ResetOTP, u.ResetOTPExpiresAt
	}
	return u.VerifyOTP, u.VerifyOTPExpiresAt
}

// SetOTP stores a code and expiry under the given purpose.
func (u *User) SetOTP(p OTPPurpose, code string, expiresAt int64) {
	if p == PurposeReset {
		u.ResetOTP, u.ResetOTPExpiresAt = code, expiresAt
		return
	}
	u.VerifyOTP, u.VerifyOTPExpiresAt = code, expiresAt
}

// ClearOTP resets the purpose's code and expiry to their "no active OTP"
// sentinels ("" and 0).
func (u *User) ClearOTP(p OTPPurpose) {
	u.SetOTP(p, "", 0)
}
