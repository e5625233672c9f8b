package dto

import "time"

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Whatsapp  string    `json:"whatsapp,omitempty"`
	RegionID  *string   `json:"regionId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	Professional *ProfessionalResponse `json:"professional,omitempty"`
}

type ProfessionalResponse struct {
	ID                 string  `json:"id"`
	Bio                string  `json:"bio,omitempty"`
	CategoryID         *string `json:"categoryId,omitempty"`
	RegionID           *string `json:"regionId,omitempty"`
	FreeProposalsUsed  int     `json:"freeProposalsUsed"`
	SubscriptionStatus string  `json:"subscriptionStatus"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Phone    *string `json:"phone,omitempty"`
	Whatsapp *string `json:"whatsapp,omitempty"`
	RegionID *string `json:"regionId,omitempty" validate:"omitempty,uuid"`

	// Professional-only fields.
	Bio        *string `json:"bio,omitempty"`
	CategoryID *string `json:"categoryId,omitempty" validate:"omitempty,uuid"`
}

// ContactResponse carries the fields the contact access policy may reveal.
type ContactResponse struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Whatsapp string `json:"whatsapp,omitempty"`
}
