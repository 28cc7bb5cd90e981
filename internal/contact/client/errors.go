package client

import (
	"errors"
	"fmt"
)

// NetworkError is a connectivity failure: the request never produced an answer from the
// listings API, timed out, or a gateway in front of it failed. It is retryable.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: gateway status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError means the listings API answered but refused or failed the request.
// It is never retried automatically.
type ServiceError struct {
	Op         string
	StatusCode int
	Reason     string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a NetworkError.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsServiceError reports whether err is a ServiceError.
func IsServiceError(err error) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr)
}
