// Package tbcache caches translated programs in a set-associative
// structure built on Akita cache components. Entries are keyed by the
// instruction address together with the translation flags, so the same
// address translated under different control state occupies different
// entries.
package tbcache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/vfpsim/ir"
)

// Config holds the cache geometry.
type Config struct {
	// Capacity is the total number of cached programs.
	Capacity int
	// Associativity is the number of ways per set.
	Associativity int
}

// DefaultConfig returns a 4096-entry, 4-way configuration.
func DefaultConfig() Config {
	return Config{
		Capacity:      4096,
		Associativity: 4,
	}
}

// Statistics holds cache performance counters.
type Statistics struct {
	Lookups   uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is a set-associative translated-program cache with LRU
// replacement.
type Cache struct {
	config Config

	// Akita cache directory for tag/state management. Entries are one
	// "byte" wide, so a key is its own block address.
	directory *akitacache.DirectoryImpl

	// Program storage, indexed by (setID * associativity + wayID).
	programs []*ir.Program

	stats Statistics
}

// New creates a cache with the given geometry.
func New(config Config) *Cache {
	numSets := config.Capacity / config.Associativity
	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			1,
			akitacache.NewLRUVictimFinder(),
		),
		programs: make([]*ir.Program, numSets*config.Associativity),
	}
}

// Config returns the cache geometry.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns the performance counters.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears the performance counters.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

// key combines the instruction address with the translation flags.
func key(pc, flags uint32) uint64 {
	return uint64(flags)<<32 | uint64(pc)
}

func (c *Cache) slot(block *akitacache.Block) *ir.Program {
	return c.programs[block.SetID*c.config.Associativity+block.WayID]
}

func (c *Cache) setSlot(block *akitacache.Block, prog *ir.Program) {
	c.programs[block.SetID*c.config.Associativity+block.WayID] = prog
}

// Get returns the cached program for pc under flags, or nil on a miss.
func (c *Cache) Get(pc, flags uint32) *ir.Program {
	c.stats.Lookups++

	block := c.directory.Lookup(0, key(pc, flags))
	if block == nil || !block.IsValid {
		c.stats.Misses++
		return nil
	}

	c.stats.Hits++
	c.directory.Visit(block)
	return c.slot(block)
}

// Put inserts a translated program for pc under flags, replacing any
// entry already cached at the same key.
func (c *Cache) Put(pc, flags uint32, prog *ir.Program) {
	k := key(pc, flags)

	if block := c.directory.Lookup(0, k); block != nil && block.IsValid {
		c.setSlot(block, prog)
		c.directory.Visit(block)
		return
	}

	victim := c.directory.FindVictim(k)
	if victim == nil {
		return
	}
	if victim.IsValid {
		c.stats.Evictions++
	}

	victim.Tag = k
	victim.IsValid = true
	c.setSlot(victim, prog)
	c.directory.Visit(victim)
}

// Invalidate drops the entry for pc under flags, if present.
func (c *Cache) Invalidate(pc, flags uint32) {
	block := c.directory.Lookup(0, key(pc, flags))
	if block != nil && block.IsValid {
		block.IsValid = false
		c.setSlot(block, nil)
	}
}

// Reset drops every entry. Callers use this when control state changes
// in a way the translation flags do not capture.
func (c *Cache) Reset() {
	c.directory.Reset()
	for i := range c.programs {
		c.programs[i] = nil
	}
}
