package validators

type UserRegisterRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Phone string `json:"phone" validate:"required,phone_number"`
	Email string `json:"email" validate:"omitempty,email"`
}

type TokenRequest struct {
	Phone string `json:"phone" validate:"required,phone_number"`
}

func ValidateUserRegister(req *UserRegisterRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateTokenRequest(req *TokenRequest) ValidationErrors {
	return ValidateStruct(req)
}
