// Package process models one process as seen at a sampling instant.
package process

import (
	"cmp"
	"slices"
	"strconv"
)

const (
	// MaxCommandLen is the display width of Command, in runes.
	MaxCommandLen = 40
	// Ellipsis is appended to commands longer than MaxCommandLen.
	Ellipsis = "..."
)

// Source provides the per-process and system reads a Process is built from.
// *proc.Parser implements it.
type Source interface {
	User(pid int) string
	Command(pid int) string
	Ram(pid int) (kb uint64, ok bool)
	StartTime(pid int) int64
	ActiveJiffies(pid int) int64
	UpTime() int64
}

// Process is a snapshot of one process. All fields are read once in New;
// only UpTime consults the source again.
type Process struct {
	src Source

	pid       int
	user      string
	command   string
	ramKB     uint64
	startTime int64
	cpu       float64
}

// New reads pid from src. It never fails: a process that exits while being
// read yields zero or empty fields.
func New(src Source, pid int) Process {
	p := Process{
		src:       src,
		pid:       pid,
		user:      src.User(pid),
		command:   truncate(src.Command(pid)),
		startTime: src.StartTime(pid),
	}
	p.ramKB, _ = src.Ram(pid)

	// Average utilization over the process lifetime, in CPU-seconds per
	// second. Not clamped: multi-threaded processes exceed 1.
	if seconds := src.UpTime() - p.startTime; seconds > 0 {
		p.cpu = float64(src.ActiveJiffies(pid)) / float64(seconds)
	}
	return p
}

func truncate(cmd string) string {
	r := []rune(cmd)
	if len(r) <= MaxCommandLen {
		return cmd
	}
	return string(r[:MaxCommandLen]) + Ellipsis
}

func (p Process) PID() int         { return p.pid }
func (p Process) User() string     { return p.user }
func (p Process) Command() string  { return p.command }
func (p Process) RAMKB() uint64    { return p.ramKB }
func (p Process) StartTime() int64 { return p.startTime }

// RAM returns RAMKB as a decimal string.
func (p Process) RAM() string { return strconv.FormatUint(p.ramKB, 10) }

// CPU returns the utilization computed when the snapshot was taken.
func (p Process) CPU() float64 { return p.cpu }

// UpTime returns the seconds since the process started, against the
// current system uptime.
func (p Process) UpTime() int64 {
	if p.src == nil {
		return 0
	}
	return max(p.src.UpTime()-p.startTime, 0)
}

// Less is the natural order of processes: ascending CPU utilization.
func Less(a, b Process) bool { return a.cpu < b.cpu }

// CompareCPU orders by ascending CPU utilization.
func CompareCPU(a, b Process) int { return cmp.Compare(a.cpu, b.cpu) }

// CompareRAMDesc orders by descending memory, the display order.
func CompareRAMDesc(a, b Process) int { return cmp.Compare(b.ramKB, a.ramKB) }

// SortByRAM sorts ps by descending memory, keeping the relative order of
// equal entries.
func SortByRAM(ps []Process) {
	slices.SortStableFunc(ps, CompareRAMDesc)
}
