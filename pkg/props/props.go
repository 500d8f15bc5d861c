// Package props implements the persisted key/value string map the graph
// package treats as external, used to record and check version and
// fingerprint compatibility across a flush/load cycle.
package props

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/azybler/graphstore/pkg/bytestore"
)

// Current version numbers, bumped whenever the on-disk record layout of
// the corresponding region changes in an incompatible way.
const (
	VersionNodes    = 1
	VersionEdges    = 1
	VersionGeometry = 1
)

const (
	keyVersionNodes    = "graphstore.version.nodes"
	keyVersionEdges    = "graphstore.version.edges"
	keyVersionGeometry = "graphstore.version.geometry"
)

// Store is a small in-memory map of string properties, serialized to and
// from a DataAccess region as newline-delimited "key=value" records.
type Store struct {
	values       map[string]string
	persistedLen int64
}

// New returns an empty Store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

func (s *Store) Put(key, value string) {
	s.values[key] = value
}

func (s *Store) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *Store) PutInt(key string, value int) {
	s.Put(key, strconv.Itoa(value))
}

func (s *Store) GetInt(key string) (int, bool) {
	v, ok := s.values[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PutCurrentVersions records the version of every region this build
// knows how to read.
func (s *Store) PutCurrentVersions() {
	s.PutInt(keyVersionNodes, VersionNodes)
	s.PutInt(keyVersionEdges, VersionEdges)
	s.PutInt(keyVersionGeometry, VersionGeometry)
}

// CheckVersions verifies every recorded region version matches what this
// build expects. When strict is false, a missing key is tolerated (an
// older store that predates that region); a present-but-mismatched value
// is always an error.
func (s *Store) CheckVersions(strict bool) error {
	checks := []struct {
		key  string
		want int
	}{
		{keyVersionNodes, VersionNodes},
		{keyVersionEdges, VersionEdges},
		{keyVersionGeometry, VersionGeometry},
	}
	for _, c := range checks {
		got, ok := s.GetInt(c.key)
		if !ok {
			if strict {
				return fmt.Errorf("props: missing required version key %q", c.key)
			}
			continue
		}
		if got != c.want {
			return fmt.Errorf("props: %s = %d, this build expects %d", c.key, got, c.want)
		}
	}
	return nil
}

// Flush serializes the store into da starting at offset 0.
func (s *Store) Flush(da bytestore.DataAccess) error {
	var buf bytes.Buffer
	for k, v := range s.values {
		fmt.Fprintf(&buf, "%s=%s\n", k, v)
	}
	need := int64(buf.Len()) + 4
	if need > da.Capacity() {
		da.IncCapacity(need)
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(buf.Len()))
	da.SetBytes(0, lenBuf[:])
	da.SetBytes(4, buf.Bytes())
	s.persistedLen = need
	return nil
}

// PersistedLength reports the exact number of body bytes the last Flush
// or Load touched (the 4-byte length prefix plus the serialized record
// bytes), letting a caller checksum precisely the meaningful region
// rather than its full, possibly over-allocated, capacity.
func (s *Store) PersistedLength() int64 { return s.persistedLen }

// Load deserializes the store from da, as written by Flush.
func Load(da bytestore.DataAccess) (*Store, error) {
	if da.Capacity() < 4 {
		return New(), nil
	}
	var lenBuf [4]byte
	da.GetBytes(0, lenBuf[:])
	n := binary.LittleEndian.Uint32(lenBuf[:])
	if int64(n)+4 > da.Capacity() {
		return nil, fmt.Errorf("props: recorded length %d exceeds region capacity %d", n, da.Capacity())
	}
	raw := make([]byte, n)
	da.GetBytes(4, raw)

	s := New()
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("props: malformed record %q", line)
		}
		s.values[k] = v
	}
	s.persistedLen = int64(n) + 4
	return s, nil
}
