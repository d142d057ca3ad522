// Package topology implements the persistent peer database and supernode
// registry: an append-only peer.db log of newline-delimited JSON records,
// a hashicorp/golang-lru/v2 cache of recently touched peers bounding
// lookup cost, and a separate unevictable set for supernodes.
package topology
