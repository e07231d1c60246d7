package service

import (
	"context"
	"errors"

	appErrors "github.com/noah-isme/batch-fee-api/pkg/errors"
)

// persistenceError classifies a storage failure as retryable. Context
// cancellation is passed through untouched.
func persistenceError(err error, message string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, message)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
