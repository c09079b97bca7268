package p3d

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/shar-tools/p3d_browser/utils"
)

var (
	// ErrTruncatedInput: fewer bytes remain than a header or payload needs.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrMagicMismatch: an embedded trigger header carries the wrong tag.
	ErrMagicMismatch = errors.New("magic mismatch")
	// ErrSizeInconsistency: declared sizes contradict each other or the parent chunk.
	ErrSizeInconsistency = errors.New("size inconsistency")
	// ErrNestingTooDeep: container nesting exceeds Options.MaxDepth.
	ErrNestingTooDeep = errors.New("nesting too deep")
)

// DecodeError is the only error type Decode returns. Err is one of the
// sentinels above, so callers can use errors.Is.
type DecodeError struct {
	Offset int
	// Tag is the chunk the failure belongs to, valid only when HasTag is
	// set. Zero is a legal tag.
	Tag    uint32
	HasTag bool
	Err    error
	Detail string
}

func (e *DecodeError) Error() string {
	s := fmt.Sprintf("p3d: %v at 0x%x", e.Err, e.Offset)
	if e.HasTag {
		s += fmt.Sprintf(" (chunk %s)", TagName(e.Tag))
	}
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	return s
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newDecodeError(kind error, offset int, tag uint32, format string, args ...interface{}) *DecodeError {
	de := newUntaggedError(kind, offset, format, args...)
	de.Tag, de.HasTag = tag, true
	return de
}

// newUntaggedError is for failures that happen before a chunk header is known.
func newUntaggedError(kind error, offset int, format string, args ...interface{}) *DecodeError {
	return &DecodeError{
		Offset: offset,
		Err:    kind,
		Detail: fmt.Sprintf(format, args...),
	}
}

// asDecodeError turns buffer overruns into ErrTruncatedInput and attaches
// tag context to errors that do not have one yet.
func asDecodeError(err error, tag uint32) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		if !de.HasTag {
			de.Tag, de.HasTag = tag, true
		}
		return de
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		offset := 0
		var oe *utils.OverrunError
		if errors.As(err, &oe) {
			offset = oe.Offset
		}
		return &DecodeError{Offset: offset, Tag: tag, HasTag: true, Err: ErrTruncatedInput, Detail: err.Error()}
	}
	return errors.Wrapf(err, "chunk %s", TagName(tag))
}
