package domain

import "errors"

var (
	ErrTransactionNotFound       = errors.New("transaction not found")
	ErrOrderNotVerifiable        = errors.New("order can no longer be verified")
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
)
