package sim

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

var (
	idGeneratorMutex        sync.Mutex
	idGeneratorInstantiated atomic.Bool
	idGenerator             IDGenerator
)

// IDGenerator can generate IDs
type IDGenerator interface {
	// Generate an ID
	Generate() string
}

// UseSequentialIDGenerator makes IDs count up from 1. Sequential IDs are
// reproducible between runs of the same batch.
func UseSequentialIDGenerator() {
	useIDGenerator(&sequentialIDGenerator{})
}

// UseGlobalIDGenerator makes IDs globally unique, so that records of several
// processes can be merged.
func UseGlobalIDGenerator() {
	useIDGenerator(globalIDGenerator{})
}

func useIDGenerator(g IDGenerator) {
	idGeneratorMutex.Lock()
	defer idGeneratorMutex.Unlock()

	if idGeneratorInstantiated.Load() {
		log.Panic("cannot change id generator type after using it")
	}

	idGenerator = g
	idGeneratorInstantiated.Store(true)
}

// GetIDGenerator returns the ID generator of the process. The sequential
// generator is used unless another one was selected before the first call.
func GetIDGenerator() IDGenerator {
	if idGeneratorInstantiated.Load() {
		return idGenerator
	}

	idGeneratorMutex.Lock()
	defer idGeneratorMutex.Unlock()

	if !idGeneratorInstantiated.Load() {
		idGenerator = &sequentialIDGenerator{}
		idGeneratorInstantiated.Store(true)
	}

	return idGenerator
}

type sequentialIDGenerator struct {
	nextID atomic.Uint64
}

func (g *sequentialIDGenerator) Generate() string {
	return strconv.FormatUint(g.nextID.Add(1), 10)
}

type globalIDGenerator struct{}

func (globalIDGenerator) Generate() string {
	return xid.New().String()
}
