// Package app is meshd's composition root. Bootstrap assembles every fx
// module in dependency order, opens the log sink before anything else
// can log a line, deletes the legacy status/thisdeviceismine files, and
// runs the resulting fx.App until an OS signal or the Supervisor's own
// termination brings it down.
package app
