// Package controlplane implements the loopback-only authenticated
// request/response channel (the "MCP1" wire format) shared by the Local
// Control Server and Local Control Client.
package controlplane
