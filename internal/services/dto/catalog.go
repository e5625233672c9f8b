package dto

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required" validate:"required,min=2"`
	Slug string `json:"slug" binding:"required" validate:"required,min=2"`
	Icon string `json:"icon,omitempty"`
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon,omitempty"`
}

type CreateRegionRequest struct {
	Name  string `json:"name" binding:"required" validate:"required,min=2"`
	State string `json:"state" binding:"required" validate:"required,len=2"`
}

type RegionResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}
