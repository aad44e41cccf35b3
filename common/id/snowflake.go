// Package id hands out time-ordered int64 identifiers for collection runs,
// insights, and chat messages. IDs sort by creation time, so run listings and
// conversation history can order by ID alone.
package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets up the generator for this process. The server and the worker run
// with distinct node IDs so their sequences never collide.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns the next identifier. Init must have been called first.
func New() int64 {
	return node.Generate().Int64()
}
