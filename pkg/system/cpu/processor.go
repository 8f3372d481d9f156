package cpu

import (
	"sync"

	"github.com/ja7ad/procmon/pkg/system/util"
)

// Counters is the source of the aggregate jiffy counters.
// *proc.Parser implements it.
type Counters interface {
	// CPUJiffies returns total and active jiffies since boot.
	CPUJiffies() (total, active uint64)
}

// Sample is the last pair of counters seen by a Processor.
type Sample struct {
	Total  uint64
	Active uint64
}

// Processor tracks aggregate CPU utilization between successive calls.
//
// The stored sample starts at zero, so the first Utilization reports the
// average since boot rather than an instantaneous rate.
type Processor struct {
	src Counters

	mu   sync.Mutex
	prev Sample
}

func New(src Counters) *Processor {
	return &Processor{src: src}
}

// Utilization returns active/total jiffies elapsed since the previous call
// and stores the current counters. It returns 0 when no jiffies elapsed.
// A counter that moved backwards contributes a zero delta.
func (p *Processor) Utilization() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	total, active := p.src.CPUJiffies()

	dTotal := util.DeltaU64(total, p.prev.Total)
	dActive := util.DeltaU64(active, p.prev.Active)
	p.prev = Sample{Total: total, Active: active}

	if dTotal == 0 {
		return 0
	}
	return util.SafeDiv(float64(dActive), float64(dTotal))
}

// Last returns a copy of the stored sample.
func (p *Processor) Last() Sample {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prev
}
