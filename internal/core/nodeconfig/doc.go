// Package nodeconfig implements the node-config facade: the thin,
// in-scope driver for the per-network transient state the Supervisor's
// service loop re-kicks after a network-environment change and cleans
// every DB clean period. The tap adapter itself
// lives outside this module's scope, so WhackAllTaps and CleanNetwork
// only log and account for the operation, matching the thin-wrapper
// pattern already used for switchcore.Switch and multicaster.Multicaster.
package nodeconfig
