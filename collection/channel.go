package collection

import (
	"iter"
	"log"

	"github.com/fluentgo/fluent/hash"
	"github.com/fluentgo/fluent/pickler"
)

// Sender transmits a serialized channel payload to a destination address.
// This is the "network transport wiring" capability named, but not
// specified, by spec §1: the engine only requires that Send either
// succeeds or returns an error to log, never that it block correctness.
type Sender interface {
	Send(address string, payload []byte) error
}

// Channel is the wire collection of spec §4.2: its first column is a
// destination address. A Merge serializes and transmits the tuple to that
// address (a non-local effect — the only collection kind with one); at
// the receiving node, Deliver injects the arrived tuple so it is visible
// for exactly one tick, like a Scratch.
type Channel struct {
	name    string
	pickle  pickler.Pickler
	sender  Sender
	arrived store
}

// NewChannel constructs a Channel that serializes outbound payloads with
// pickle and transmits them via sender. sender may be nil for a
// receive-only channel; the node builder accepts a nil sender, and Merge
// on such a channel logs and drops the tuple.
func NewChannel(name string, pickle pickler.Pickler, sender Sender) *Channel {
	return &Channel{name: name, pickle: pickle, sender: sender, arrived: newStore()}
}

func (c *Channel) Name() string                                  { return c.name }
func (c *Channel) Get() map[hash.Hash]*Entry                      { return c.arrived.get() }
func (c *Channel) Entries() iter.Seq2[[]any, *CollectionTupleIds] { return c.arrived.entriesSeq() }

// Merge transmits value (whose first column is the destination address)
// to its destination. Per spec §7, a serialization failure or missing
// sender drops the merge with a log record at the sender; it never
// returns an error to rule code and never affects the recipient.
func (c *Channel) Merge(value []any, logicalTime int64) {
	if len(value) == 0 {
		log.Printf("channel %s: merge dropped: empty tuple has no destination column", c.name)
		return
	}
	address, ok := value[0].(string)
	if !ok {
		log.Printf("channel %s: merge dropped: destination column is not a string", c.name)
		return
	}
	if c.sender == nil {
		log.Printf("channel %s: merge dropped: no sender configured", c.name)
		return
	}
	payload, err := c.pickle.Dump(value[1:])
	if err != nil {
		log.Printf("channel %s: merge dropped: serialization failed: %v", c.name, err)
		return
	}
	if err := c.sender.Send(address, payload); err != nil {
		log.Printf("channel %s: merge dropped: send to %s failed: %v", c.name, address, err)
		return
	}
}

// Deliver injects a tuple that arrived from the network (the address
// column already stripped by the transport layer) as local state for
// exactly one tick.
func (c *Channel) Deliver(value []any, logicalTime int64) {
	c.arrived.merge(value, logicalTime)
}

// Tick clears arrived tuples, matching Scratch's single-tick visibility.
func (c *Channel) Tick() {
	c.arrived.clear()
}
