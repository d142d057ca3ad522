package switchcore

import "errors"

// ErrRateLimited is returned by SendHello/SendFirewallOpener when a
// peer's outbound queue has exceeded its rate budget. The caller should
// treat this as iteration-local: log and move on, the peer will be
// retried on a future cycle.
var ErrRateLimited = errors.New("switchcore: peer send rate exceeded")
