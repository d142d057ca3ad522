// Package envwatch samples the host's network configuration and resident
// memory on a timer and reports changes to the Supervisor.
//
// A Watcher computes a NetworkConfigurationFingerprint from net.Interfaces()
// plus a best-effort default-route probe; the Supervisor compares successive
// samples and treats inequality as "something changed, resync". Separately,
// a memory policy backed by raulk/go-watchdog watches resident set size and
// surfaces a fatal error if pressure gets severe enough to make allocation
// failure imminent.
package envwatch
