package common

import (
	"errors"
	"io"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	pkgerrors "github.com/pkg/errors"
)

// Kind classifies an error so the reducer and watchers know whether to
// retry, surface a file failure, or treat the condition as
// cancellation.
type Kind int

const (
	// KindTransientIO is retried indefinitely inside the worker and
	// never surfaces to the reducer.
	KindTransientIO Kind = iota
	// KindAuth is a URL-expiry / credential rejection from the store.
	KindAuth
	// KindFilesystem covers local I/O: permission denied, disk full,
	// invalid path.
	KindFilesystem
	// KindMalformed is a precondition failure caught before any I/O
	// (unparseable URL, zero-length chunk size, empty file).
	KindMalformed
	// KindInternal covers channel-closed, lock-poisoned and
	// serialization failures: fatal to the run, not to the process.
	KindInternal
	// KindCancelled is not an error; it surfaces as FileCancelled.
	KindCancelled
)

// AppError is the engine's error type: a Kind plus a wrapped cause.
// Wrapping goes through github.com/pkg/errors so a stack trace is
// attached the first time an error is created.
type AppError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError wraps err (which may be nil) into an AppError of the
// given kind with a stack trace attached via pkg/errors.
func NewAppError(kind Kind, msg string, err error) *AppError {
	wrapped := err
	if wrapped != nil {
		wrapped = pkgerrors.Wrap(wrapped, msg)
	}
	return &AppError{Kind: kind, Msg: msg, Err: wrapped}
}

// ErrFileTransferLinkAuth is the canonical message for an expired or
// revoked pre-signed URL.
const ErrFileTransferLinkAuth = "transfer link expired or removed"

// Classify inspects an error returned by the blob-store client and
// reports which Kind it belongs to, picking apart *azcore.ResponseError
// to distinguish auth failures from ordinary transfer errors.
func Classify(err error) Kind {
	if err == nil {
		return KindTransientIO
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusForbidden, http.StatusUnauthorized, http.StatusNotFound:
			return KindAuth
		case http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests:
			return KindTransientIO
		default:
			return KindTransientIO
		}
	}

	if netErrorLikelyTransient(err) {
		return KindTransientIO
	}

	return KindInternal
}

// netErrorLikelyTransient covers connection resets, timeouts and EOFs
// that the net/http client surfaces as plain errors rather than
// structured *azcore.ResponseError values.
func netErrorLikelyTransient(err error) bool {
	type temporary interface{ Temporary() bool }
	type timeout interface{ Timeout() bool }

	var t temporary
	if errors.As(err, &t) {
		return t.Temporary()
	}
	var to timeout
	if errors.As(err, &to) {
		return to.Timeout()
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, errTransientProbe)
}

var errTransientProbe = pkgerrors.New("xfercore: transient I/O probe")
