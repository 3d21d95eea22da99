package channel

import (
	"errors"
	"sync"

	"gotokenbridge/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

var ErrNoHandler = errors.New("channel: no handler registered at target address")

// Handler is a contract that accepts cross-domain deliveries. The origin
// argument is asserted by the channel and can be trusted to identify the
// true sender on the other ledger.
type Handler interface {
	Address() common.Address
	HandleMessage(origin common.Address, msg types.Message) error
}

// Channel is one direction of the cross-domain message primitive: an
// unordered queue of in-flight notifications. Delivery is at most once;
// nothing here retries or reorders.
type Channel struct {
	mu    sync.Mutex
	queue []types.Message
}

func New() *Channel {
	return &Channel{}
}

func (c *Channel) push(msg types.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(c.queue, msg)
}

// Pop removes the oldest in-flight message. Removal happens before delivery,
// so a failed handler call consumes the message (no retry).
func (c *Channel) Pop() (types.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return types.Message{}, false
	}
	msg := c.queue[0]
	c.queue = c.queue[1:]
	return msg, true
}

func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Messenger is a channel endpoint bound to a single sender address. The
// origin on every message it sends is the bound address; callers cannot
// forge it, which is what makes origin assertion load-bearing on the
// receiving side.
type Messenger struct {
	ch     *Channel
	sender common.Address
	src    types.ChainType
	dst    types.ChainType
}

func NewMessenger(ch *Channel, sender common.Address, src, dst types.ChainType) *Messenger {
	return &Messenger{ch: ch, sender: sender, src: src, dst: dst}
}

// Send stamps identity fields and enqueues. Fire and forget: once sent a
// notification cannot be withdrawn.
func (m *Messenger) Send(msg types.Message) string {
	msg.ID = uuid.New().String()
	msg.Origin = m.sender
	msg.SourceChain = m.src
	msg.DestChain = m.dst
	m.ch.push(msg)
	return msg.ID
}

// Dispatcher resolves delivered messages to the handler occupying the target
// address on the receiving ledger.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[common.Address]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[common.Address]Handler)}
}

func (d *Dispatcher) Register(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[h.Address()] = h
}

func (d *Dispatcher) Deliver(msg types.Message) error {
	d.mu.RLock()
	h, ok := d.handlers[msg.Target]
	d.mu.RUnlock()
	if !ok {
		return ErrNoHandler
	}
	return h.HandleMessage(msg.Origin, msg)
}

// Transport carries popped messages to the receiving side. In-process both
// sides share a dispatcher; split-process deployments deliver over JSON-RPC.
type Transport interface {
	Deliver(msg types.Message) error
}

type LocalTransport struct {
	Dispatcher *Dispatcher
}

func (t *LocalTransport) Deliver(msg types.Message) error {
	return t.Dispatcher.Deliver(msg)
}
