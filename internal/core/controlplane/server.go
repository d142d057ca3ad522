package controlplane

import (
	"fmt"
	"net"
	"sync"

	"github.com/meshnet-io/meshd/internal/util/logger"
	controlplaneif "github.com/meshnet-io/meshd/pkg/interfaces/controlplane"
)

var log = logger.Logger("controlplane")

// Server is the disk-authenticated Local Control Server: a loopback UDP
// endpoint that decodes, authenticates, and executes commands against a
// handler, replying on the same conversation id.
type Server struct {
	key     [32]byte
	handler controlplaneif.CommandHandler

	mu   sync.Mutex
	conn *net.UDPConn
	wg   sync.WaitGroup
}

// NewServer constructs a Server bound to loopback port, deriving its
// authentication key from key. handler is invoked synchronously per
// decoded command, from the receiver goroutine, matching the contract's
// "executes the command synchronously against the node-config facade
// under its internal lock".
func NewServer(key [32]byte, port int, handler controlplaneif.CommandHandler) (*Server, error) {
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port}
	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("controlplane: bind loopback %d: %w", port, err)
	}
	return &Server{key: key, handler: handler, conn: conn}, nil
}

// Start begins serving in a background goroutine. Per controlplaneif.Server.
func (s *Server) Start() error {
	s.wg.Add(1)
	go s.serve()
	return nil
}

// Stop implements controlplaneif.Server.
func (s *Server) Stop() error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return nil
	}
	err := conn.Close()
	s.wg.Wait()
	return err
}

func (s *Server) serve() {
	defer s.wg.Done()

	reassembly := newReassembler()
	buf := make([]byte, MaxPacketSize)
	for {
		n, from, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		s.handleDatagram(reassembly, buf[:n], from)
	}
}

func (s *Server) handleDatagram(reassembly *reassembler, raw []byte, from *net.UDPAddr) {
	pkt, err := decodePacket(s.key, raw)
	if err != nil {
		log.Debug("dropping control datagram", "err", err, "from", from)
		return
	}

	command, complete := reassembly.feed(pkt)
	if !complete {
		return
	}

	lines := s.handler(command)
	for _, line := range lines {
		fragments, err := fragmentLine(s.key, pkt.ConversationID, line)
		if err != nil {
			log.Warn("failed to encode control response", "err", err)
			continue
		}
		for _, frag := range fragments {
			if _, err := s.conn.WriteToUDP(frag, from); err != nil {
				log.Warn("failed to send control response", "err", err)
				return
			}
		}
	}
}

var _ controlplaneif.Server = (*Server)(nil)
