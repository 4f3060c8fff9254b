package validate

import (
	"errors"
	"fmt"

	"github.com/ppiankov/isbalign/internal/model"
	"go.uber.org/multierr"
)

// Issue is a record-level problem carrying the rejection reason it maps to.
type Issue struct {
	Reason model.Reason
	Err    error
}

func (i *Issue) Error() string {
	if i.Err == nil {
		return string(i.Reason)
	}
	return fmt.Sprintf("%s: %v", i.Reason, i.Err)
}

func (i *Issue) Unwrap() error {
	return i.Err
}

func issuef(reason model.Reason, format string, args ...interface{}) *Issue {
	return &Issue{Reason: reason, Err: fmt.Errorf(format, args...)}
}

// reasonOf returns the reason of the first Issue found in err.
func reasonOf(err error) model.Reason {
	for _, e := range multierr.Errors(err) {
		var iss *Issue
		if errors.As(e, &iss) {
			return iss.Reason
		}
	}
	return model.ReasonNone
}
