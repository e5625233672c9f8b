package dto

type RegisterRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required,min=8"`
	Name     string `json:"name" binding:"required" validate:"required,min=2"`
	Role     string `json:"role" binding:"required" validate:"required,oneof=client professional"`
	Phone    string `json:"phone,omitempty"`
	Whatsapp string `json:"whatsapp,omitempty"`

	// Professional-only fields.
	Bio        string  `json:"bio,omitempty"`
	CategoryID *string `json:"categoryId,omitempty"`
	RegionID   *string `json:"regionId,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
