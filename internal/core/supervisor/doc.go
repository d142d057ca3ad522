// Package supervisor runs the node's service loop: the timer-driven
// cycle that samples the environment, announces multicast membership,
// pings and firewall-opens due peers, cleans up stale state, and sizes
// its own sleep from the switch's recommended next delay.
//
// Everything else a cold start needs — identity, the auth token, the
// control channel, the demarcation point, topology, the switch, the
// multicaster, the environment watcher, the NetConf Bridge — is
// constructed and torn down by its own fx module's lifecycle hooks.
// Supervisor owns only the loop itself and the run()/terminate() state
// machine around it.
package supervisor
