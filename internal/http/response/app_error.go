package response

import "fmt"

// AppError 处理器层的错误：响应码 + 面向用户的消息 + 可选的内部原因
type AppError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%d %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ServerSide 5xx 错误，消息不应暴露内部原因
func (e *AppError) ServerSide() bool {
	return e.Code >= CodeInternal
}

// NewAppError 构造处理器错误
func NewAppError(code int, key, message string, err error) *AppError {
	return &AppError{Code: code, Key: key, Message: message, Err: err}
}
