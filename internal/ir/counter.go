package ir

import "sync"

// NodeIDCounter is the sole authority for fresh node ids within a
// compilation unit. Ids are monotonically assigned and never reused.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex, although compilation itself is single-threaded.
type NodeIDCounter struct {
	mu   sync.Mutex
	next NodeID
}

// NewNodeIDCounter creates a counter whose first Next() returns 0.
func NewNodeIDCounter() *NodeIDCounter {
	return &NodeIDCounter{}
}

// Next returns a fresh id and advances the counter.
func (c *NodeIDCounter) Next() NodeID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	return id
}

// Minted returns how many ids have been handed out so far.
func (c *NodeIDCounter) Minted() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(c.next)
}
