package auth

// ForgotPasswordMessage is returned for every forgot-password request so the
// response never reveals whether an account exists.
const ForgotPasswordMessage = "If an account exists for that email, a reset link is on its way."

// ResetPasswordMessage confirms a successful reset.
const ResetPasswordMessage = "Your password has been reset. You can now sign in."

// ForgotPasswordRequest is the forgot-password payload.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the reset-password payload.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
	Token    string `json:"token" validate:"required"`
}

// MessageResponse is the body of both password endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
