package steam

import (
	"errors"
	"net/http"
)

// FaultKind classifies why an achievements lookup failed.
type FaultKind string

const (
	KindConfiguration  FaultKind = "configuration"
	KindNotFound       FaultKind = "not_found"
	KindPrivateProfile FaultKind = "private_profile"
	KindUpstream       FaultKind = "upstream"
	KindInternal       FaultKind = "internal"
)

// Caller-facing messages.
const (
	MsgMissingKey     = "Server misconfiguration: STEAM_API_KEY not set"
	MsgNotFound       = "Achievements not found. Check if profile is public."
	MsgPrivateProfile = "Steam Profile is Private"
	MsgUpstreamError  = "Steam API Error"
)

// Fault is the error returned by every failed lookup. Status and Message are what the
// caller sees; Err, when set, is the underlying cause.
type Fault struct {
	Kind    FaultKind
	Status  int
	Message string
	Err     error
}

func (f *Fault) Error() string {
	return string(f.Kind) + ": " + f.Message
}

func (f *Fault) Unwrap() error { return f.Err }

func ConfigurationFault() *Fault {
	return &Fault{Kind: KindConfiguration, Status: http.StatusInternalServerError, Message: MsgMissingKey}
}

func NotFoundFault() *Fault {
	return &Fault{Kind: KindNotFound, Status: http.StatusNotFound, Message: MsgNotFound}
}

func PrivateProfileFault() *Fault {
	return &Fault{Kind: KindPrivateProfile, Status: http.StatusForbidden, Message: MsgPrivateProfile}
}

// UpstreamFault preserves the upstream status; the upstream body is never relayed.
func UpstreamFault(status int) *Fault {
	return &Fault{Kind: KindUpstream, Status: status, Message: MsgUpstreamError}
}

// InternalFault carries err's text as the caller-facing message.
func InternalFault(err error) *Fault {
	return &Fault{Kind: KindInternal, Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
}

// AsFault returns the *Fault in err's chain, or wraps err as an internal fault.
func AsFault(err error) *Fault {
	if err == nil {
		return nil
	}
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return InternalFault(err)
}
