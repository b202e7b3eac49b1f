package sim

import (
	"fmt"
	"os"
	"sync"
)

// A Bundle is the IO registry of an entity. It maps unique port names to IO
// containers and remembers the order in which the ports were registered.
//
// The registry itself is safe for concurrent use. The data of a registered
// IO is not guarded, so a model publishes its results by registering a new
// IO rather than by mutating one that is already visible.
type Bundle struct {
	HookableBase

	lock    sync.RWMutex
	order   []string
	members map[string]*IO
}

// NewBundle creates an empty Bundle.
func NewBundle() *Bundle {
	return &Bundle{
		members: make(map[string]*IO),
	}
}

// Register adds a port to the bundle. Registering an existing name replaces
// the container while keeping the original position.
func (b *Bundle) Register(name string, io *IO) {
	if name == "" {
		panic("port name must not be empty")
	}

	b.lock.Lock()
	if _, found := b.members[name]; !found {
		b.order = append(b.order, name)
	}

	b.members[name] = io
	b.lock.Unlock()

	b.InvokeHook(HookCtx{
		Domain: b,
		Pos:    HookPosPortRegistered,
		Item:   name,
		Detail: io,
	})
}

// Has returns true if a port with the given name is registered.
func (b *Bundle) Has(name string) bool {
	b.lock.RLock()
	defer b.lock.RUnlock()

	_, found := b.members[name]
	return found
}

// Lookup returns the IO of a port and whether the port exists.
func (b *Bundle) Lookup(name string) (*IO, bool) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	io, found := b.members[name]
	return io, found
}

// Snapshot returns a deep copy of the IO registered under the given name.
func (b *Bundle) Snapshot(name string) (*IO, bool) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	io, found := b.members[name]
	if !found {
		return nil, false
	}

	return io.Clone(), true
}

// Get returns the IO registered under the given name. It panics if the port
// does not exist.
func (b *Bundle) Get(name string) *IO {
	b.lock.RLock()
	defer b.lock.RUnlock()

	io, found := b.members[name]
	if !found {
		errMsg := fmt.Sprintf("Port %s is not registered.\n", name)
		errMsg += "Available ports include:\n"
		for _, n := range b.order {
			errMsg += fmt.Sprintf("\t%s\n", n)
		}
		fmt.Fprint(os.Stderr, errMsg)

		panic("port not found")
	}

	return io
}

// Names returns the port names in registration order.
func (b *Bundle) Names() []string {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return append([]string(nil), b.order...)
}

// Len returns the number of registered ports.
func (b *Bundle) Len() int {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return len(b.order)
}
