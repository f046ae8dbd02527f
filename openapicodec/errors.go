package openapicodec

import (
	"errors"
	"fmt"
)

// ErrInvalidDocument is returned when a description cannot be represented
// as an OpenAPI document.
var ErrInvalidDocument = errors.New("openapicodec: invalid document")

// KeyError reports a value that failed to serialize together with the
// object key holding it.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("openapicodec: key %q: %v", e.Key, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

func keyError(key string, err error) error {
	var ke *KeyError
	if errors.As(err, &ke) {
		return &KeyError{Key: key + "." + ke.Key, Err: ke.Err}
	}
	return &KeyError{Key: key, Err: err}
}
