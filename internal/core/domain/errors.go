package domain

import (
	"errors"
	"fmt"
)

// Expected failure kinds. Adapters wrap these with op context,
// the core matches them with [errors.Is] and [errors.As].
var (
	ErrInvalidEndpoint = errors.New("invalid catalog endpoint")
	ErrTransport       = errors.New("catalog transport failure")
	ErrDecoding        = errors.New("malformed catalog payload")
	ErrStorage         = errors.New("storage failure")
)

// A StatusError reports a non-2xx catalog response.
type StatusError struct {
	Code int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("catalog responded with status %d", e.Code)
}

// FailureMessage translates an expected failure kind into the
// human-readable text shown to the user. Every surface reports
// failures through this one mapping.
func FailureMessage(err error) string {
	var statusErr StatusError
	switch {
	case errors.Is(err, ErrInvalidEndpoint):
		return "catalog address is invalid"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("catalog is unavailable (status %d)", statusErr.Code)
	case errors.Is(err, ErrDecoding):
		return "catalog returned malformed data"
	case errors.Is(err, ErrTransport):
		return "network failure, check the connection and retry"
	case errors.Is(err, ErrStorage):
		return "local storage is unavailable"
	}
	return err.Error()
}
