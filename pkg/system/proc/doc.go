// Package proc extracts typed values from the kernel's textual interfaces
// on Linux: /proc plus the os-release record and the account table.
// It is the leaf of the procmon sampling engine (see pkg/system).
//
// Overview
//
//   - Parser:
//     New(opts ...Option) *Parser
//
//     A Parser is bound to a proc root (default /proc), an os-release path,
//     a passwd path and a clock-ticks-per-second constant. All of them can be
//     overridden, which is how tests point it at a synthetic tree.
//
//   - Extraction patterns:
//
//   - key-value line scan: os-release PRETTY_NAME, /proc/version,
//     /proc/meminfo (MemTotal, MemAvailable), /proc/stat (processes,
//     procs_running), /proc/<pid>/status (VmSize, Uid).
//
//   - positional fields: /proc/<pid>/stat fields 14-17 (utime, stime,
//     cutime, cstime) and 22 (starttime), 1-based. The comm field is
//     parenthesised and may contain spaces; it is skipped by locating the
//     last ") ".
//
//   - counter vector: the aggregate "cpu" line of /proc/stat in the order
//     user, nice, system, idle, iowait, irq, softirq, steal, guest,
//     guest_nice (see CPUStates).
//
//   - directory enumeration: numeric children of the proc root (Pids).
//
//   - colon-delimited lookup: uid -> account name in /etc/passwd (User).
//
// Error policy
//
// Readers never return errors. A source that cannot be opened, a missing key
// or a malformed token degrades to a zero value ("" for strings,
// UnknownUser for unresolved accounts). The cause is logged at debug level
// through the logger given with WithLogger; the sentinel errors in errs.go
// only appear in those log records. Ram is the one reader that reports
// presence, because callers use it as a liveness probe.
//
// Units
//
//	ActiveJiffies(pid), StartTime(pid) : whole seconds (jiffies / CLK_TCK)
//	Jiffies, SystemActiveJiffies, IdleJiffies : raw jiffies since boot
//	Ram(pid)                           : kB (VmSize)
//	UpTime                             : whole seconds since boot
//	MemoryUtilization                  : ratio in [0,1]
//
// Example
//
//	/*
//	p := proc.New(proc.WithLogger(slog.Default()))
//	for _, pid := range p.Pids() {
//	    if kb, ok := p.Ram(pid); ok {
//	        fmt.Printf("%d %s %d kB %q\n", pid, p.User(pid), kb, p.Command(pid))
//	    }
//	}
//	*/
//
// Testing guidance
//
//   - Unit tests build a synthetic tree under t.TempDir() and point the
//     Parser at it with WithRoot/WithOSRelease/WithPasswd.
//   - Live tests read the real /proc and SKIP when it is not mounted.
//   - CLK_TCK in the environment overrides the default of 100.
package proc
