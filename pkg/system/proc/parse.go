package proc

import (
	"strconv"
	"strings"
)

// Positions of the per-state counters on the aggregate "cpu" line of
// /proc/stat, after the label has been dropped.
const (
	StateUser = iota
	StateNice
	StateSystem
	StateIdle
	StateIOWait
	StateIRQ
	StateSoftIRQ
	StateSteal
	StateGuest
	StateGuestNice
)

// 1-based positions in /proc/<pid>/stat.
const (
	statUTime     = 14
	statSTime     = 15
	statCUTime    = 16
	statCSTime    = 17
	statStartTime = 22
)

// CPUStates holds the aggregate jiffy counters of the "cpu" line of
// /proc/stat. Guest and GuestNice are already included in User and Nice by
// the kernel and are not part of any sum.
type CPUStates struct {
	User      uint64
	Nice      uint64
	System    uint64
	Idle      uint64
	IOWait    uint64
	IRQ       uint64
	SoftIRQ   uint64
	Steal     uint64
	Guest     uint64
	GuestNice uint64
}

// ActiveJiffies is user + nice + system + irq + softirq + steal.
func (s CPUStates) ActiveJiffies() uint64 {
	return s.User + s.Nice + s.System + s.IRQ + s.SoftIRQ + s.Steal
}

// IdleJiffies is idle + iowait.
func (s CPUStates) IdleJiffies() uint64 {
	return s.Idle + s.IOWait
}

// TotalJiffies is active + idle.
func (s CPUStates) TotalJiffies() uint64 {
	return s.ActiveJiffies() + s.IdleJiffies()
}

func parseUint(s string) (uint64, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// fieldValue returns the token following key when the first token of line
// equals key, e.g. fieldValue("VmSize:  1234 kB", "VmSize:") == "1234".
func fieldValue(line, key string) (string, bool) {
	fs := strings.Fields(line)
	if len(fs) < 2 || fs[0] != key {
		return "", false
	}
	return fs[1], true
}

// statFields splits a /proc/<pid>/stat line so that the n-th field (1-based)
// is at index n-1. The comm field is wrapped in parens and may contain
// spaces, so everything up to the last ") " is handled as pid + comm.
func statFields(line string) []string {
	i := strings.LastIndex(line, ") ")
	if i < 0 {
		return strings.Fields(line)
	}
	head := strings.TrimSpace(line[:i+1])
	pid, comm, found := strings.Cut(head, " ")
	if !found {
		return strings.Fields(line)
	}
	out := []string{pid, comm}
	return append(out, strings.Fields(line[i+2:])...)
}

func statField(fields []string, n int) (string, bool) {
	if n < 1 || n > len(fields) {
		return "", false
	}
	return fields[n-1], true
}

// prettyName extracts PRETTY_NAME from one os-release line. Spaces are first
// folded into underscores so that the quoted value stays one token, then
// '=' and '"' become separators and the underscores are unfolded again.
func prettyName(line string) (string, bool) {
	r := strings.NewReplacer(" ", "_", "=", " ", `"`, " ")
	tokens := strings.Fields(r.Replace(line))
	for i := 0; i+1 < len(tokens); i += 2 {
		if tokens[i] == "PRETTY_NAME" {
			return strings.ReplaceAll(tokens[i+1], "_", " "), true
		}
	}
	return "", false
}

// passwdName returns the account name of a passwd record whose uid field
// equals uid.
func passwdName(line, uid string) (string, bool) {
	parts := strings.SplitN(line, ":", 4)
	if len(parts) < 3 || parts[2] != uid {
		return "", false
	}
	return parts[0], true
}

// cpuStates parses the aggregate "cpu" line of /proc/stat. Missing trailing
// counters (older kernels) stay zero; a malformed counter is read as zero.
func cpuStates(line string) (CPUStates, bool) {
	fs := strings.Fields(line)
	if len(fs) < 2 || fs[0] != "cpu" {
		return CPUStates{}, false
	}
	var vals [StateGuestNice + 1]uint64
	for i, tok := range fs[1:] {
		if i >= len(vals) {
			break
		}
		vals[i], _ = parseUint(tok)
	}
	return CPUStates{
		User:      vals[StateUser],
		Nice:      vals[StateNice],
		System:    vals[StateSystem],
		Idle:      vals[StateIdle],
		IOWait:    vals[StateIOWait],
		IRQ:       vals[StateIRQ],
		SoftIRQ:   vals[StateSoftIRQ],
		Steal:     vals[StateSteal],
		Guest:     vals[StateGuest],
		GuestNice: vals[StateGuestNice],
	}, true
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
