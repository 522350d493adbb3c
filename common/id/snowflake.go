package id

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// ErrAlreadyInitialized is returned by Init once a node has been set.
var ErrAlreadyInitialized = errors.New("id generator already initialized")

var (
	mu     sync.Mutex
	node   *snowflake.Node
	nodeID int64
	// fallback serves New before Init, so library callers and tests need no
	// process-wide setup. It never blocks a later Init.
	fallback *snowflake.Node
)

// Init sets the Snowflake node for this process. It may succeed only once.
func Init(id int64) error {
	mu.Lock()
	defer mu.Unlock()

	if node != nil {
		return fmt.Errorf("%w as node %d", ErrAlreadyInitialized, nodeID)
	}
	n, err := snowflake.NewNode(id)
	if err != nil {
		return fmt.Errorf("creating snowflake node %d: %w", id, err)
	}
	node, nodeID = n, id
	return nil
}

// New generates a time-ordered int64 ID for a search invocation.
func New() int64 {
	return current().Generate().Int64()
}

func current() *snowflake.Node {
	mu.Lock()
	defer mu.Unlock()

	if node != nil {
		return node
	}
	if fallback == nil {
		// Node 0 is always within range.
		fallback, _ = snowflake.NewNode(0)
	}
	return fallback
}
