package types

import "errors"

// ============================================================================
//                              identity / auth errors
// ============================================================================

var (
	// ErrInvalidIdentity is returned when a secret or public identity blob
	// cannot be parsed.
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrIdentityMismatch describes an identity.public that does not
	// project from identity.secret. Loading does not return it: such an
	// identity.public is rewritten from identity.secret.
	ErrIdentityMismatch = errors.New("identity.public does not match identity.secret")

	// ErrInvalidAuthToken is returned when authtoken.secret is not exactly
	// 24 printable ASCII characters from [A-Za-z0-9].
	ErrInvalidAuthToken = errors.New("invalid auth token")
)

// ============================================================================
//                              control-plane errors
// ============================================================================

var (
	// ErrControlAuthFailed is returned for a control packet whose HMAC does
	// not verify; callers must drop the packet silently, never surface this
	// to a peer.
	ErrControlAuthFailed = errors.New("control packet authentication failed")

	// ErrControlMalformed is returned for a control packet that is too
	// short, has a bad magic, or exceeds the max packet size.
	ErrControlMalformed = errors.New("malformed control packet")

	// ErrConversationIdZero describes a zero conversation id. The control
	// client does not return it; its Send reports failure by returning 0.
	ErrConversationIdZero = errors.New("conversation id must be non-zero")
)

// ============================================================================
//                              general errors
// ============================================================================

var (
	// ErrClosed is returned by operations attempted after Close/terminate.
	ErrClosed = errors.New("closed")

	// ErrAlreadyRunning describes a second call to Supervisor.Run. Run does
	// not return it; a second call returns ReasonUnrecoverableError.
	ErrAlreadyRunning = errors.New("run() already called on this instance")

	// ErrNoFreePort describes a port range in which no port could be
	// bound. The demarcation package reports that case with its own
	// demarcation.ErrNoFreePort, not this value.
	ErrNoFreePort = errors.New("no free port in configured range")
)
