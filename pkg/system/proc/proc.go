//go:build linux

package proc

import (
	"bufio"
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ja7ad/procmon/pkg/system/util"
)

// Parser reads kernel-exposed text sources and extracts typed values.
// Every read is best-effort: a missing source or a malformed token yields
// a zero value, logged at debug level, and never an error.
type Parser struct {
	root      string
	osRelease string
	passwd    string
	clkTck    int64
	log       *slog.Logger
}

type Option func(*Parser)

// WithRoot sets the proc root (default /proc).
func WithRoot(dir string) Option {
	return func(p *Parser) { p.root = dir }
}

// WithOSRelease sets the path of the os-release record.
func WithOSRelease(path string) Option {
	return func(p *Parser) { p.osRelease = path }
}

// WithPasswd sets the path of the account table.
func WithPasswd(path string) Option {
	return func(p *Parser) { p.passwd = path }
}

// WithClockTicks overrides the jiffies-per-second constant. Values <= 0 are
// ignored.
func WithClockTicks(hz int64) Option {
	return func(p *Parser) {
		if hz > 0 {
			p.clkTck = hz
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{
		root:      DefaultRoot,
		osRelease: DefaultOSRelease,
		passwd:    DefaultPasswd,
		clkTck:    ClockTicks(),
		log:       slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ClockTicks returns the jiffies-per-second constant used for conversions.
func (p *Parser) ClockTicks() int64 { return p.clkTck }

func (p *Parser) path(elem ...string) string {
	return filepath.Join(append([]string{p.root}, elem...)...)
}

func (p *Parser) pidPath(pid int, name string) string {
	return p.path(strconv.Itoa(pid), name)
}

// scan calls fn for every line of path until fn returns true.
func (p *Parser) scan(path string, fn func(line string) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		p.log.Debug("failed to open source", "path", path, "error", err)
		return false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if fn(sc.Text()) {
			return true
		}
	}
	if err := sc.Err(); err != nil {
		p.log.Debug("failed to scan source", "path", path, "error", err)
	}
	return false
}

func (p *Parser) firstLine(path string) (string, bool) {
	var line string
	ok := p.scan(path, func(l string) bool {
		line = l
		return true
	})
	return line, ok
}

// lookup returns the value token of the first line of path whose first
// token equals key.
func (p *Parser) lookup(path, key string) (string, bool) {
	var val string
	found := p.scan(path, func(line string) bool {
		v, ok := fieldValue(line, key)
		if ok {
			val = v
		}
		return ok
	})
	if !found {
		p.log.Debug("key not found", "path", path, "key", key, "error", ErrNoKey)
	}
	return val, found
}

//
// System-level readers
//

// OperatingSystem returns PRETTY_NAME from the os-release record.
func (p *Parser) OperatingSystem() string {
	var name string
	p.scan(p.osRelease, func(line string) bool {
		v, ok := prettyName(line)
		if ok {
			name = v
		}
		return ok
	})
	return name
}

// Kernel returns the third token of /proc/version
// ("Linux version 6.8.0-45-generic ...").
func (p *Parser) Kernel() string {
	line, _ := p.firstLine(p.path("version"))
	fs := strings.Fields(line)
	if len(fs) < 3 {
		return ""
	}
	return fs[2]
}

// Pids lists the purely numeric directories under the proc root in
// ascending order.
func (p *Parser) Pids() []int {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		p.log.Debug("failed to read proc root", "path", p.root, "error", err)
		return nil
	}
	pids := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || !isNumeric(e.Name()) {
			continue
		}
		if pid, err := strconv.Atoi(e.Name()); err == nil && pid > 0 {
			pids = append(pids, pid)
		}
	}
	slices.Sort(pids)
	return pids
}

// MemoryUtilization returns (MemTotal - MemAvailable) / MemTotal from
// /proc/meminfo, or 0 when the total is unknown.
func (p *Parser) MemoryUtilization() float64 {
	var (
		total, avail       uint64
		haveTotal, haveAvl bool
	)
	path := p.path("meminfo")
	p.scan(path, func(line string) bool {
		if v, ok := fieldValue(line, "MemTotal:"); ok {
			total, haveTotal = parseUint(v)
		} else if v, ok := fieldValue(line, "MemAvailable:"); ok {
			avail, haveAvl = parseUint(v)
		}
		return haveTotal && haveAvl
	})
	if !haveTotal || total == 0 {
		return 0
	}
	return util.SafeDiv(float64(util.DeltaU64(total, avail)), float64(total))
}

// UpTime returns the system uptime in whole seconds.
func (p *Parser) UpTime() int64 {
	line, _ := p.firstLine(p.path("uptime"))
	fs := strings.Fields(line)
	if len(fs) == 0 {
		return 0
	}
	v, ok := parseFloat(fs[0])
	if !ok || v < 0 {
		return 0
	}
	return int64(v)
}

func (p *Parser) cpuLine() (string, bool) {
	var out string
	path := p.path("stat")
	found := p.scan(path, func(line string) bool {
		if fs := strings.Fields(line); len(fs) == 0 || fs[0] != "cpu" {
			return false
		}
		out = line
		return true
	})
	if !found {
		p.log.Debug("no aggregate cpu line", "path", path, "error", ErrNoCPU)
	}
	return out, found
}

// CpuUtilization returns the raw counter tokens of the aggregate "cpu" line
// of /proc/stat, label removed.
func (p *Parser) CpuUtilization() []string {
	line, ok := p.cpuLine()
	if !ok {
		return nil
	}
	return strings.Fields(line)[1:]
}

// CPUStates returns the aggregate "cpu" counters of /proc/stat.
func (p *Parser) CPUStates() CPUStates {
	line, ok := p.cpuLine()
	if !ok {
		return CPUStates{}
	}
	s, _ := cpuStates(line)
	return s
}

// SystemActiveJiffies returns the non-idle jiffies of all CPUs since boot.
func (p *Parser) SystemActiveJiffies() uint64 { return p.CPUStates().ActiveJiffies() }

// IdleJiffies returns idle + iowait jiffies of all CPUs since boot.
func (p *Parser) IdleJiffies() uint64 { return p.CPUStates().IdleJiffies() }

// Jiffies returns active + idle jiffies of all CPUs since boot.
func (p *Parser) Jiffies() uint64 { return p.CPUStates().TotalJiffies() }

// CPUJiffies returns total and active jiffies from a single read of
// /proc/stat so both belong to the same instant.
func (p *Parser) CPUJiffies() (total, active uint64) {
	s := p.CPUStates()
	return s.TotalJiffies(), s.ActiveJiffies()
}

// TotalProcesses returns the number of forks since boot ("processes").
func (p *Parser) TotalProcesses() int { return p.statCount("processes") }

// RunningProcesses returns the number of runnable tasks ("procs_running").
func (p *Parser) RunningProcesses() int { return p.statCount("procs_running") }

func (p *Parser) statCount(key string) int {
	v, ok := p.lookup(p.path("stat"), key)
	if !ok {
		return 0
	}
	n, _ := parseInt(v)
	return int(n)
}

//
// Per-PID readers
//

// Command returns the command line of pid with argument separators turned
// into spaces, or "" when unreadable.
func (p *Parser) Command(pid int) string {
	path := p.pidPath(pid, "cmdline")
	b, err := os.ReadFile(path)
	if err != nil {
		p.log.Debug("failed to read cmdline", "path", path, "error", err)
		return ""
	}
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	b = bytes.ReplaceAll(b, []byte{0}, []byte{' '})
	return strings.TrimRight(string(b), " ")
}

// Ram returns VmSize of pid in kilobytes. ok is false when the status
// record or the key is missing, which callers treat as an exited process.
func (p *Parser) Ram(pid int) (kb uint64, ok bool) {
	v, found := p.lookup(p.pidPath(pid, "status"), "VmSize:")
	if !found {
		return 0, false
	}
	kb, _ = parseUint(v)
	return kb, true
}

// Uid returns the real uid token of pid's status record.
func (p *Parser) Uid(pid int) string {
	v, _ := p.lookup(p.pidPath(pid, "status"), "Uid:")
	return v
}

// User resolves the owner of pid through the account table.
func (p *Parser) User(pid int) string {
	uid := p.Uid(pid)
	if uid == "" {
		return UnknownUser
	}
	return p.UserName(uid)
}

// UserName resolves a numeric uid token through the account table.
func (p *Parser) UserName(uid string) string {
	name := UnknownUser
	p.scan(p.passwd, func(line string) bool {
		v, ok := passwdName(line, uid)
		if ok {
			name = v
		}
		return ok
	})
	return name
}

func (p *Parser) stat(pid int) []string {
	path := p.pidPath(pid, "stat")
	line, ok := p.firstLine(path)
	if !ok {
		return nil
	}
	fs := statFields(line)
	if len(fs) == 0 {
		p.log.Debug("empty stat", "path", path, "error", ErrNoStat)
	}
	return fs
}

func (p *Parser) statSum(pid int, positions ...int) (int64, bool) {
	fs := p.stat(pid)
	if fs == nil {
		return 0, false
	}
	var sum int64
	for _, n := range positions {
		tok, ok := statField(fs, n)
		if !ok {
			p.log.Debug("short stat", "pid", pid, "field", n, "error", ErrShortStat)
			return 0, false
		}
		v, _ := parseInt(tok)
		sum += v
	}
	return sum, true
}

// ActiveJiffies returns the CPU time of pid and its waited-for children
// (utime + stime + cutime + cstime) in whole seconds.
func (p *Parser) ActiveJiffies(pid int) int64 {
	j, _ := p.statSum(pid, statUTime, statSTime, statCUTime, statCSTime)
	return j / p.clkTck
}

// StartTime returns the start time of pid in whole seconds since boot.
func (p *Parser) StartTime(pid int) int64 {
	j, _ := p.statSum(pid, statStartTime)
	return j / p.clkTck
}
