package tbcache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vfpsim/ir"
	"github.com/sarchlab/vfpsim/tbcache"
)

// program builds a distinguishable single-op program.
func program(imm uint32) *ir.Program {
	b := ir.NewBuilder()
	t := b.Const32(imm)
	b.Free(t)
	return b.Program()
}

var _ = Describe("Cache", func() {
	var c *tbcache.Cache

	BeforeEach(func() {
		// Small cache for testing: 16 entries, 4-way.
		c = tbcache.New(tbcache.Config{
			Capacity:      16,
			Associativity: 4,
		})
	})

	It("should miss on a cold cache", func() {
		Expect(c.Get(0x8000, 0)).To(BeNil())

		stats := c.Stats()
		Expect(stats.Lookups).To(Equal(uint64(1)))
		Expect(stats.Misses).To(Equal(uint64(1)))
		Expect(stats.Hits).To(Equal(uint64(0)))
	})

	It("should hit on a cached program", func() {
		prog := program(1)
		c.Put(0x8000, 0, prog)

		Expect(c.Get(0x8000, 0)).To(BeIdenticalTo(prog))
		Expect(c.Stats().Hits).To(Equal(uint64(1)))
	})

	It("should key entries by flags as well as address", func() {
		withVec := program(1)
		scalar := program(2)
		c.Put(0x8000, 0x0003, withVec)
		c.Put(0x8000, 0x0000, scalar)

		Expect(c.Get(0x8000, 0x0003)).To(BeIdenticalTo(withVec))
		Expect(c.Get(0x8000, 0x0000)).To(BeIdenticalTo(scalar))
	})

	It("should replace an entry reinserted at the same key", func() {
		c.Put(0x8000, 0, program(1))
		repl := program(2)
		c.Put(0x8000, 0, repl)

		Expect(c.Get(0x8000, 0)).To(BeIdenticalTo(repl))
		Expect(c.Stats().Evictions).To(Equal(uint64(0)))
	})

	It("should evict the least recently used way on overflow", func() {
		// Five keys mapping to the same set of a 4-way cache. With
		// one-entry blocks and 4 sets, addresses 4 apart share a set.
		for i := uint32(0); i < 4; i++ {
			c.Put(0x8000+i*4, 0, program(i))
		}

		// Touch the first entry so it is not the LRU victim.
		Expect(c.Get(0x8000, 0)).NotTo(BeNil())

		c.Put(0x8000+16, 0, program(99))
		Expect(c.Stats().Evictions).To(Equal(uint64(1)))

		Expect(c.Get(0x8000, 0)).NotTo(BeNil())
		Expect(c.Get(0x8000+16, 0)).NotTo(BeNil())
	})

	It("should invalidate a single key", func() {
		c.Put(0x8000, 0, program(1))
		c.Put(0x8004, 0, program(2))

		c.Invalidate(0x8000, 0)

		Expect(c.Get(0x8000, 0)).To(BeNil())
		Expect(c.Get(0x8004, 0)).NotTo(BeNil())
	})

	It("should drop everything on reset", func() {
		c.Put(0x8000, 0, program(1))
		c.Put(0x9000, 5, program(2))

		c.Reset()

		Expect(c.Get(0x8000, 0)).To(BeNil())
		Expect(c.Get(0x9000, 5)).To(BeNil())
	})

	It("should clear counters without dropping entries", func() {
		c.Put(0x8000, 0, program(1))
		c.Get(0x8000, 0)

		c.ResetStats()

		Expect(c.Stats()).To(Equal(tbcache.Statistics{}))
		Expect(c.Get(0x8000, 0)).NotTo(BeNil())
	})
})
