package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound 查詢結果沒有任何酒譜
var ErrNotFound = errors.New("no matching drink in catalog")

// StatusError 目錄回傳非 2xx 狀態碼
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Body == "" {
		return fmt.Sprintf("%s request failed: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// DecodeError 目錄回應 2xx 但內容無法解析
type DecodeError struct {
	Operation string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s response could not be decoded: %v", e.Operation, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
