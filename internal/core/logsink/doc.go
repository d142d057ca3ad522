// Package logsink opens meshd's log output: either stdout, or a
// size-budgeted, gzip-rotated node.log under the node's home directory.
package logsink
