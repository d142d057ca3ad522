package topology

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	topologyif "github.com/meshnet-io/meshd/pkg/interfaces/topology"
	"github.com/meshnet-io/meshd/pkg/types"
)

// diskRecord is PeerRecord's on-disk JSON shape. types.PeerAddress and
// []byte need explicit string encodings; everything else round-trips.
type diskRecord struct {
	Address        string    `json:"address"`
	PublicKey      string    `json:"public_key,omitempty"`
	LastDirectSend time.Time `json:"last_direct_send,omitempty"`
	LastReceive    time.Time `json:"last_receive,omitempty"`
	HasDirectPath  bool      `json:"has_direct_path,omitempty"`
	Tombstone      bool      `json:"tombstone,omitempty"`
}

func toDisk(r topologyif.PeerRecord) diskRecord {
	d := diskRecord{
		Address:        r.Address.String(),
		LastDirectSend: r.LastDirectSend,
		LastReceive:    r.LastReceive,
		HasDirectPath:  r.HasDirectPath,
	}
	if len(r.PublicKey) > 0 {
		d.PublicKey = base64.StdEncoding.EncodeToString(r.PublicKey)
	}
	return d
}

func (d diskRecord) toRecord() (topologyif.PeerRecord, error) {
	addr, err := types.ParsePeerAddress(d.Address)
	if err != nil {
		return topologyif.PeerRecord{}, err
	}
	var pub []byte
	if d.PublicKey != "" {
		pub, err = base64.StdEncoding.DecodeString(d.PublicKey)
		if err != nil {
			return topologyif.PeerRecord{}, err
		}
	}
	return topologyif.PeerRecord{
		Address:        addr,
		PublicKey:      pub,
		LastDirectSend: d.LastDirectSend,
		LastReceive:    d.LastReceive,
		HasDirectPath:  d.HasDirectPath,
	}, nil
}

// store is peer.db: an append-only newline-delimited JSON log, opened for
// append and replayed on load. Later records for the same address
// supersede earlier ones; a tombstone record removes the address.
type store struct {
	path string
	file *os.File
}

func openStore(path string) (*store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("topology: create home dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("topology: open peer.db: %w", err)
	}
	return &store{path: path, file: f}, nil
}

// load replays the log into a map keyed by address, applying tombstones
// and letting later records win.
func (s *store) load() (map[types.PeerAddress]topologyif.PeerRecord, error) {
	if _, err := s.file.Seek(0, 0); err != nil {
		return nil, err
	}
	out := make(map[types.PeerAddress]topologyif.PeerRecord)

	scanner := bufio.NewScanner(s.file)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var d diskRecord
		if err := json.Unmarshal(line, &d); err != nil {
			log.Warn("skipping malformed peer.db record", "err", err)
			continue
		}
		addr, err := types.ParsePeerAddress(d.Address)
		if err != nil {
			continue
		}
		if d.Tombstone {
			delete(out, addr)
			continue
		}
		rec, err := d.toRecord()
		if err != nil {
			continue
		}
		out[addr] = rec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("topology: read peer.db: %w", err)
	}

	if _, err := s.file.Seek(0, 2); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *store) append(rec topologyif.PeerRecord) error {
	return s.appendLine(toDisk(rec))
}

func (s *store) appendTombstone(addr types.PeerAddress) error {
	return s.appendLine(diskRecord{Address: addr.String(), Tombstone: true})
}

func (s *store) appendLine(d diskRecord) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = s.file.Write(b)
	return err
}

// compact rewrites the log from scratch with exactly one line per live
// record, discarding superseded entries and tombstones. Called after
// EvictExpired removes any record, and after every 1000th Touch.
func (s *store) compact(live map[types.PeerAddress]topologyif.PeerRecord) error {
	tmpPath := s.path + ".compact"
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("topology: create compaction file: %w", err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range live {
		b, err := json.Marshal(toDisk(rec))
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return err
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := s.file.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	s.file = f
	return nil
}

func (s *store) close() error {
	return s.file.Close()
}
