package demarcation

import "errors"

// ErrNoFreePort means every port in the configured range was already in
// use; startup must abort.
var ErrNoFreePort = errors.New("demarcation: no free overlay udp port")
