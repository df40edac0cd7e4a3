package dto

type BaseResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func NewBaseResponse(code int, message string, data interface{}) *BaseResponse {
	return &BaseResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

type SymbolHistoryRequest struct {
	Symbol string `param:"symbol" validate:"required,alphanum,max=10"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
}
