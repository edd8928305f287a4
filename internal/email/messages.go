package email

import "fmt"

// Message builders for the three mails the auth flows send. Plain text,
// matching what the product has always sent.

func WelcomeMessage(name, emailAddr string) (subject, body string) {
	subject = fmt.Sprintf("Welcome to CodeQuest %s", name)
	body = fmt.Sprintf(`Hi %s,
Welcome to CodeQuest! Your account has been created with email id: %s.
Click below to begin your first challenge:
https://codequest.dev/dashboard
If you didn't sign up for CodeQuest, you can safely ignore this email.
— The CodeQuest Team`, name, emailAddr)
	return subject, body
}

func VerifyOTPMessage(code string) (subject, body string) {
	subject = fmt.Sprintf("Verify your CodeQuest account — %s", code)
	body = fmt.Sprintf(`Thank you for signing up to CodeQuest!
To complete your registration and activate your account,
please verify your email address by entering the following One-Time Password: %s
This code expires in 24 hours.`, code)
	return subject, body
}

func ResetOTPMessage(code string) (subject, body string) {
	subject = fmt.Sprintf("Reset your CodeQuest password — %s", code)
	body = fmt.Sprintf(`We received a request to reset your CodeQuest password.
Enter the following One-Time Password to choose a new one: %s
This code expires in 15 minutes. If you didn't request a reset, ignore this email.`, code)
	return subject, body
}
