package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// internalError marks err as common.ErrorInternal while keeping its text
// for server logs.
func internalError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrorInternal, err)
}

func validationError(msg string) error {
	return common.NewError(common.ErrorValidation, msg)
}

// isClassified reports whether err already carries a caller-facing kind.
func isClassified(err error) bool {
	var ce *common.Error
	return errors.As(err, &ce) || errors.Is(err, common.ErrorInternal)
}
