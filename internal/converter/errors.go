package converter

import (
	"errors"
	"fmt"

	"github.com/insightdelivered/finmd/internal/models"
)

var (
	// ErrMissingPayload means the field required by the declared format is absent or empty.
	ErrMissingPayload = errors.New("missing required payload")
	// ErrUnsupportedFormat means the format is known but not valid for the entry point used.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrUnrecognizedUpload means no file renderer matches the upload.
	ErrUnrecognizedUpload = errors.New("unrecognized upload")
	// ErrDecode means the uploaded bytes are not a readable document of the expected kind.
	ErrDecode = errors.New("decode failure")
)

// DecodeError wraps the decoder error for a binary upload.
// errors.Is(err, ErrDecode) holds for every DecodeError.
type DecodeError struct {
	Format models.InputFormat
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse %s upload: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
