package dto

type AssignBadgeDTO struct {
	Badge string `json:"badge" binding:"required,oneof=blue green gold red none"`
}
