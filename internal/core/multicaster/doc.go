// Package multicaster recomputes each attached network's local multicast
// group membership from the host's IGMP snapshot and forwards
// announcements through the switch.
package multicaster
