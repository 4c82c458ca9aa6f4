package serverutils

// ErrorBody is the REST error envelope: {error:{code, message, details?}}.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func NewErrorBody(err *AppError) ErrorBody {
	return ErrorBody{Error: ErrorDetail{
		Code:    err.Code,
		Message: err.Message,
		Details: err.Details,
	}}
}
