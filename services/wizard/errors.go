package wizard

import (
	"errors"
	"strings"

	profileRepo "covenant/database/repository/profile"
	"covenant/services/storage"
)

// ErrorKind buckets every failure the wizard can surface. Each kind maps to
// one user-visible message; nothing is retried automatically.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindConnectivity
	KindPermission
	KindConflict
	KindConfiguration
	KindUnknown
)

// FlowError is a user-facing failure. Message is localized and safe to show;
// Err keeps the underlying cause for logs.
type FlowError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

func validationError(message string) *FlowError {
	return &FlowError{Kind: KindValidation, Message: message}
}

// connectivitySignatures are substrings that mark a failure as a transport
// problem rather than a backend rejection.
var connectivitySignatures = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"i/o timeout",
	"network is unreachable",
	"context deadline exceeded",
	"dial tcp",
	"server selection error",
	"failed to connect",
}

// IsConnectivityFailure reports whether the error looks like a network-class
// failure, judged from its message content.
func IsConnectivityFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range connectivitySignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

var permissionSignatures = []string{
	"unauthorized",
	"permission",
	"not allowed",
	"forbidden",
	"policy",
}

func isPermissionFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range permissionSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// ClassifySubmitError converts a repository failure into the user-facing
// taxonomy: permission, conflict, connectivity, or the generic fallback
// carrying the raw message.
func ClassifySubmitError(err error) *FlowError {
	switch {
	case errors.Is(err, profileRepo.ErrProfileConflict):
		return &FlowError{Kind: KindConflict, Message: MsgConflict, Err: err}
	case isPermissionFailure(err):
		return &FlowError{Kind: KindPermission, Message: MsgPermission, Err: err}
	case IsConnectivityFailure(err):
		return &FlowError{Kind: KindConnectivity, Message: MsgConnection, Err: err}
	default:
		return &FlowError{Kind: KindUnknown, Message: MsgSubmitFailed + " (" + err.Error() + ")", Err: err}
	}
}

// ClassifyUploadError converts a storage failure into either the
// configuration message or the generic upload message.
func ClassifyUploadError(err error) *FlowError {
	if errors.Is(err, storage.ErrContainerMissing) {
		return &FlowError{Kind: KindConfiguration, Message: MsgStorageMissing, Err: err}
	}
	return &FlowError{Kind: KindUnknown, Message: MsgUploadFailed, Err: err}
}
