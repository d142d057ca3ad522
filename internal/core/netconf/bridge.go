package netconf

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/google/uuid"

	"github.com/meshnet-io/meshd/internal/util/logger"
	netconfif "github.com/meshnet-io/meshd/pkg/interfaces/netconf"
	"github.com/meshnet-io/meshd/pkg/types"
)

var log = logger.Logger("netconf")

// Bridge implements netconfif.Bridge against a subprocess speaking the
// line-delimited JSON protocol.
type Bridge struct {
	helperPath string
	onReply    netconfif.ReplyHandler

	mu    sync.Mutex
	cmd   *exec.Cmd
	stdin io.WriteCloser
	done  chan struct{}
}

// New constructs a Bridge that launches helperPath on Start and invokes
// onReply for every well-formed reply line. An empty helperPath makes
// Start a no-op; existence of the helper script is checked by the
// caller before Start.
func New(helperPath string, onReply netconfif.ReplyHandler) *Bridge {
	return &Bridge{helperPath: helperPath, onReply: onReply}
}

// Start implements netconfif.Bridge.
func (b *Bridge) Start() error {
	if b.helperPath == "" {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cmd := exec.Command(b.helperPath)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("netconf: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("netconf: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("netconf: start %s: %w", b.helperPath, err)
	}

	b.cmd = cmd
	b.stdin = stdin
	b.done = make(chan struct{})
	go b.readLoop(stdout, b.done)
	return nil
}

func (b *Bridge) readLoop(stdout io.Reader, done chan struct{}) {
	defer close(done)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 4096), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		traceID := uuid.New()
		var m wireMessage
		if err := json.Unmarshal(line, &m); err != nil {
			log.Warn("dropping malformed netconf message", "trace", traceID, "err", err)
			continue
		}

		reply, err := decodeReply(m)
		if err != nil {
			log.Warn("dropping unusable netconf reply", "trace", traceID, "err", err)
			continue
		}
		log.Debug("decoded netconf reply", "trace", traceID, "network", reply.Network, "peer", reply.Peer)
		b.onReply(reply)
	}
}

// Request implements netconfif.Bridge.
func (b *Bridge) Request(requestID types.PacketID, network types.NetworkID, peer types.PeerAddress) error {
	b.mu.Lock()
	stdin := b.stdin
	b.mu.Unlock()

	if stdin == nil {
		return ErrNotRunning
	}

	line, err := json.Marshal(encodeRequest(requestID, network, peer))
	if err != nil {
		return fmt.Errorf("netconf: encode request: %w", err)
	}
	line = append(line, '\n')

	_, err = stdin.Write(line)
	return err
}

// Stop implements netconfif.Bridge.
func (b *Bridge) Stop() error {
	b.mu.Lock()
	cmd, stdin, done := b.cmd, b.stdin, b.done
	b.cmd, b.stdin, b.done = nil, nil, nil
	b.mu.Unlock()

	if cmd == nil {
		return nil
	}
	if stdin != nil {
		_ = stdin.Close()
	}
	_ = cmd.Process.Kill()
	<-done
	return cmd.Wait()
}

var _ netconfif.Bridge = (*Bridge)(nil)
