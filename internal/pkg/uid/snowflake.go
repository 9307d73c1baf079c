package uid

import (
	"crypto/sha256"
	"encoding/binary"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered int64 ids.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake builds a generator whose node number is derived from the host
// name, so replicas on different hosts do not collide.
func NewSnowflake() (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeNumber())
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new id.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func nodeNumber() int64 {
	host, err := os.Hostname()
	if err != nil || strings.TrimSpace(host) == "" {
		return 1
	}

	sum := sha256.Sum256([]byte(host))
	mask := uint16(1<<snowflake.NodeBits - 1)

	return int64(binary.BigEndian.Uint16(sum[:2]) & mask)
}
