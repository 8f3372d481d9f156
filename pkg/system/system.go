//go:build linux

// Package system aggregates system-wide metrics and the process list for
// one sampling tick.
package system

import (
	"github.com/ja7ad/procmon/pkg/process"
	"github.com/ja7ad/procmon/pkg/system/cpu"
	"github.com/ja7ad/procmon/pkg/system/proc"
)

// Snapshot is everything System reports for one tick.
type Snapshot struct {
	OS                string
	Kernel            string
	MemoryUtilization float64
	TotalProcesses    int
	RunningProcesses  int
	UpTime            int64
	CPU               float64
	Processes         []process.Process
}

// System answers system-wide queries from a proc.Parser. It holds a single
// cpu.Processor for its whole lifetime and nothing else between calls.
type System struct {
	parser *proc.Parser
	cpu    *cpu.Processor
}

func New(p *proc.Parser) *System {
	return &System{parser: p, cpu: cpu.New(p)}
}

// Cpu returns the shared utilization tracker.
func (s *System) Cpu() *cpu.Processor { return s.cpu }

// Processes builds a snapshot for every live pid, sorted by descending
// memory. Pids whose memory cannot be read are taken as exited and left out.
func (s *System) Processes() []process.Process {
	pids := s.parser.Pids()
	out := make([]process.Process, 0, len(pids))
	for _, pid := range pids {
		if _, ok := s.parser.Ram(pid); !ok {
			continue
		}
		out = append(out, process.New(s.parser, pid))
	}
	process.SortByRAM(out)
	return out
}

func (s *System) Kernel() string             { return s.parser.Kernel() }
func (s *System) OperatingSystem() string    { return s.parser.OperatingSystem() }
func (s *System) MemoryUtilization() float64 { return s.parser.MemoryUtilization() }
func (s *System) TotalProcesses() int        { return s.parser.TotalProcesses() }
func (s *System) RunningProcesses() int      { return s.parser.RunningProcesses() }
func (s *System) UpTime() int64              { return s.parser.UpTime() }

// Snapshot samples every metric once. It advances the CPU tracker.
func (s *System) Snapshot() Snapshot {
	return Snapshot{
		OS:                s.OperatingSystem(),
		Kernel:            s.Kernel(),
		MemoryUtilization: s.MemoryUtilization(),
		TotalProcesses:    s.TotalProcesses(),
		RunningProcesses:  s.RunningProcesses(),
		UpTime:            s.UpTime(),
		CPU:               s.cpu.Utilization(),
		Processes:         s.Processes(),
	}
}
