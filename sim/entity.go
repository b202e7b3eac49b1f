package sim

import (
	"context"
	"sync"
)

// An Entity is one simulated component instance. It owns an IO registry and
// can be run. Holding the entity lock keeps the entity from publishing new
// results.
type Entity interface {
	Named
	Hookable
	sync.Locker

	IOS() *Bundle
	Run(ctx context.Context) (Result, error)
}

// EntityBase provides the name, hooks and IO registry that concrete entities
// embed.
type EntityBase struct {
	HookableBase
	sync.Mutex

	name string
	ios  *Bundle
}

// NewEntityBase creates a new EntityBase.
func NewEntityBase(name string) *EntityBase {
	NameMustBeValid(name)

	return &EntityBase{
		name: name,
		ios:  NewBundle(),
	}
}

// Name returns the name of the entity.
func (e *EntityBase) Name() string {
	return e.name
}

// IOS returns the IO registry of the entity.
func (e *EntityBase) IOS() *Bundle {
	return e.ios
}
