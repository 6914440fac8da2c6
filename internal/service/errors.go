package service

import "errors"

// errors used by handlers

type ErrCode string

const (
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrInvalidInput ErrCode = "INVALID_INPUT"
	ErrInvalidState ErrCode = "INVALID_STATE"
	ErrConflict     ErrCode = "CONFLICT"
	ErrStore        ErrCode = "STORE_FAILURE"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() ErrCode { return e.code }

func makeErr(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

// Code extracts the error code, or ErrStore for anything uncoded.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ErrStore
}
