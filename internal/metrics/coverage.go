package metrics

import (
	"math"

	"github.com/san-kum/reactord/internal/solver"
)

// CoverageSum tracks how far the coverages of one surface phase stray from
// summing to one. The segment [offset, offset+count) of the state vector
// must hold that phase's site fractions.
type CoverageSum struct {
	name   string
	offset int
	count  int
	worst  float64
}

func NewCoverageSum(name string, offset, count int) *CoverageSum {
	return &CoverageSum{name: name, offset: offset, count: count}
}

func (c *CoverageSum) Name() string { return c.name }

func (c *CoverageSum) Observe(x solver.State, t float64) {
	if c.offset+c.count > len(x) {
		return
	}
	sum := 0.0
	for _, v := range x[c.offset : c.offset+c.count] {
		sum += v
	}
	c.worst = math.Max(c.worst, math.Abs(sum-1.0))
}

func (c *CoverageSum) Value() float64 { return c.worst }

func (c *CoverageSum) Reset() { c.worst = 0 }
