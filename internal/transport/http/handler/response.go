package handler

// response is the envelope every auth endpoint answers with. The client
// contract observes only success and message.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func ok(message string) response {
	return response{Success: true, Message: message}
}

func fail(message string) response {
	return response{Success: false, Message: message}
}

const (
	errInternalServer     = "Internal server error"
	errMissingFields      = "Missing details"
	errUserExists         = "User already exists"
	errInvalidCredentials = "Invalid email or password"
	errAlreadyVerified    = "Account already verified"
	errUserNotFound       = "User not found"
	errInvalidOTP         = "Invalid OTP"
	errExpiredOTP         = "OTP expired"
)
