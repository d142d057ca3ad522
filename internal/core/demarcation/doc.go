// Package demarcation binds the overlay UDP socket to the first free
// port in a configured range and best-effort maps it externally via
// UPnP or NAT-PMP.
package demarcation
