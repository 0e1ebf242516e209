package request_models

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest.Email carries either an email address or a phone number.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SendOtpRequest struct {
	Type  string `json:"type" binding:"required,oneof=email phone"`
	Value string `json:"value" binding:"required"`
}

type VerifyOtpRequest struct {
	Value string `json:"value" binding:"required"`
	Otp   string `json:"otp" binding:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Value    string `json:"value" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}
