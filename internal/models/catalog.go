package models

type Category struct {
	BaseModel
	Name string `gorm:"uniqueIndex;not null"`
	Slug string `gorm:"uniqueIndex;not null"`
	Icon string
}

type Region struct {
	BaseModel
	Name  string `gorm:"not null"`
	State string `gorm:"size:2;not null;index"`
}
