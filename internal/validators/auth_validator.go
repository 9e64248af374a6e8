package validators

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=128"`
	Phone     string `json:"phone" validate:"omitempty,min=7,max=20"`
	Role      string `json:"role" validate:"omitempty,oneof=customer business"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=128"`
}

type VerifyUserRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,min=2,max=50"`
	Phone     *string `json:"phone" validate:"omitempty,min=7,max=20"`
	Avatar    *string `json:"avatar" validate:"omitempty,url"`

	Newsletter    *bool `json:"newsletter"`
	Notifications *bool `json:"notifications"`
}

func ValidateRegisterRequest(req *RegisterRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateLoginRequest(req *LoginRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateChangePasswordRequest(req *ChangePasswordRequest) ValidationErrors {
	errs := ValidateStruct(req)
	if req.CurrentPassword != "" && req.CurrentPassword == req.NewPassword {
		errs = append(errs, ValidationError{
			Field:   "NewPassword",
			Tag:     "nefield",
			Message: "New password must differ from the current password",
		})
	}
	return errs
}

func ValidateUpdateProfileRequest(req *UpdateProfileRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateVerifyUserRequest(req *VerifyUserRequest) ValidationErrors {
	return ValidateStruct(req)
}
