package dto

type CreateReportDTO struct {
	Type      string `json:"type" binding:"required,oneof=user post comment reply"`
	TargetID  string `json:"target_id" binding:"required"`
	Reason    string `json:"reason" binding:"required,min=1,max=500"`
	ExtraInfo string `json:"extra_info" validate:"max=1000"`
}

type UpdateReportStatusDTO struct {
	Status string `json:"status" binding:"required,oneof=pending reviewed dismissed"`
}
