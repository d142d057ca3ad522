// Package netconf relays network-configuration requests to an optional
// local helper subprocess (services.d/netconf.service) and decodes its
// line-delimited JSON replies.
package netconf
