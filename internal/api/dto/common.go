package dto

// Response 统一返回封装
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageDTO 列表类响应的分页外壳
type PageDTO struct {
	Total int64       `json:"total"`
	Items interface{} `json:"items"`
}
