package dto

// CreateTaxonomyDTO 分类与标签共用
type CreateTaxonomyDTO struct {
	Name        string `json:"name" binding:"required,min=1,max=40"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateTaxonomyDTO struct {
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type TaxonomyDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	BackgroundImage string `json:"background_image"`
	PostCount       int64  `json:"post_count"`
}
