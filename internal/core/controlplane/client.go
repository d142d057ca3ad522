package controlplane

import (
	"crypto/rand"
	"encoding/binary"
	"net"
	"sync"

	controlplaneif "github.com/meshnet-io/meshd/pkg/interfaces/controlplane"
	"github.com/meshnet-io/meshd/pkg/types"
)

const (
	clientPortMin   = 32768
	clientPortMax   = 52768
	clientPortTries = 5000
)

// Client is the Local Control Client: binds a random high loopback port,
// sends authenticated commands to the server's well-known port, and
// dispatches decoded response lines to a ResultHandler from its own
// receiver goroutine.
type Client struct {
	key        [32]byte
	serverPort int
	handler    controlplaneif.ResultHandler

	inUseLock sync.Mutex
	conn      *net.UDPConn
	wg        sync.WaitGroup
}

// NewClient binds a loopback UDP socket on a random port in
// [32768, 52768), retrying on collision, and starts the receiver
// goroutine.
func NewClient(key [32]byte, serverPort int, handler controlplaneif.ResultHandler) (*Client, error) {
	conn, err := bindRandomPort()
	if err != nil {
		return nil, err
	}

	c := &Client{key: key, serverPort: serverPort, handler: handler, conn: conn}
	c.wg.Add(1)
	go c.receive()
	return c, nil
}

func bindRandomPort() (*net.UDPConn, error) {
	for i := 0; i < clientPortTries; i++ {
		port := clientPortMin + randIntn(clientPortMax-clientPortMin)
		conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port})
		if err == nil {
			return conn, nil
		}
	}
	return nil, ErrNoPort
}

func randIntn(n int) int {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0
	}
	return int(binary.BigEndian.Uint32(b[:]) % uint32(n))
}

func randConversationID() types.ConversationId {
	var b [4]byte
	_, _ = rand.Read(b[:])
	id := types.ConversationId(binary.BigEndian.Uint32(b[:]))
	if id == 0 {
		_, _ = rand.Read(b[:])
		id = types.ConversationId(binary.BigEndian.Uint32(b[:]))
	}
	return id
}

// Send implements controlplaneif.Client.
func (c *Client) Send(command string) types.ConversationId {
	c.inUseLock.Lock()
	defer c.inUseLock.Unlock()

	if c.conn == nil {
		return 0
	}

	convID := randConversationID()
	if convID == 0 {
		return 0
	}

	fragments, err := fragmentLine(c.key, convID, command)
	if err != nil {
		log.Warn("failed to encode control command", "err", err)
		return 0
	}

	dst := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: c.serverPort}
	for _, frag := range fragments {
		if _, err := c.conn.WriteToUDP(frag, dst); err != nil {
			log.Warn("failed to send control command", "err", err)
			return 0
		}
	}
	return convID
}

// Close implements controlplaneif.Client, draining and closing the
// socket under the same lock Send uses so neither races the receiver
// goroutine's teardown.
func (c *Client) Close() error {
	c.inUseLock.Lock()
	conn := c.conn
	c.conn = nil
	c.inUseLock.Unlock()

	if conn == nil {
		return nil
	}
	err := conn.Close()
	c.wg.Wait()
	return err
}

func (c *Client) receive() {
	defer c.wg.Done()

	reassembly := newReassembler()
	buf := make([]byte, MaxPacketSize)
	for {
		c.inUseLock.Lock()
		conn := c.conn
		c.inUseLock.Unlock()
		if conn == nil {
			return
		}

		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}

		pkt, err := decodePacket(c.key, buf[:n])
		if err != nil {
			log.Debug("dropping control response", "err", err)
			continue
		}
		if line, complete := reassembly.feed(pkt); complete {
			c.handler(pkt.ConversationID, line)
		}
	}
}

var _ controlplaneif.Client = (*Client)(nil)
