// Package switchcore implements the packet switch: a rate-limited
// outbound queue per peer, exposed as switchcore.Switch, enough to drive
// the Supervisor's timer-tasks and ping steps end to end without a real
// wire codec.
package switchcore
