//go:build linux

package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/ja7ad/procmon/pkg/process"
	"github.com/ja7ad/procmon/pkg/system"
	"github.com/ja7ad/procmon/pkg/system/util"
	"github.com/ja7ad/procmon/pkg/types"
)

type procRow struct {
	PID     int     `json:"pid" yaml:"pid"`
	User    string  `json:"user" yaml:"user"`
	Command string  `json:"command" yaml:"command"`
	RAMKB   uint64  `json:"ram_kb" yaml:"ram_kb"`
	CPU     float64 `json:"cpu" yaml:"cpu"`
	UpTime  int64   `json:"uptime_sec" yaml:"uptime_sec"`
}

type report struct {
	At                time.Time `json:"time" yaml:"time"`
	OS                string    `json:"os" yaml:"os"`
	Kernel            string    `json:"kernel" yaml:"kernel"`
	UpTime            int64     `json:"uptime_sec" yaml:"uptime_sec"`
	CPU               float64   `json:"cpu" yaml:"cpu"`
	MemoryUtilization float64   `json:"memory" yaml:"memory"`
	TotalProcesses    int       `json:"total_processes" yaml:"total_processes"`
	RunningProcesses  int       `json:"running_processes" yaml:"running_processes"`
	Processes         []procRow `json:"processes" yaml:"processes"`
}

func newReport(at time.Time, s system.Snapshot, top int) report {
	ps := s.Processes
	if top > 0 && len(ps) > top {
		ps = ps[:top]
	}
	rows := make([]procRow, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, toRow(p))
	}
	return report{
		At:                at,
		OS:                s.OS,
		Kernel:            s.Kernel,
		UpTime:            s.UpTime,
		CPU:               s.CPU,
		MemoryUtilization: s.MemoryUtilization,
		TotalProcesses:    s.TotalProcesses,
		RunningProcesses:  s.RunningProcesses,
		Processes:         rows,
	}
}

func toRow(p process.Process) procRow {
	return procRow{
		PID:     p.PID(),
		User:    p.User(),
		Command: p.Command(),
		RAMKB:   p.RAMKB(),
		CPU:     p.CPU(),
		UpTime:  p.UpTime(),
	}
}

type renderer interface {
	Render(at time.Time, s system.Snapshot) error
	// Live reports whether output redraws a terminal in place.
	Live() bool
	Close() error
}

func newRenderer(format string, w io.Writer, top int) (renderer, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return &tableRenderer{w: w, top: top, live: isTerminal(w)}, nil
	case "json":
		return &jsonRenderer{enc: json.NewEncoder(w), top: top}, nil
	case "yaml":
		return &yamlRenderer{enc: yaml.NewEncoder(w), top: top}, nil
	case "csv":
		return &csvRenderer{w: csv.NewWriter(w), top: top}, nil
	default:
		return nil, fmt.Errorf("unknown output: %s", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

//
// table
//

type tableRenderer struct {
	w    io.Writer
	top  int
	live bool
}

func (r *tableRenderer) Live() bool   { return r.live }
func (r *tableRenderer) Close() error { return nil }

func (r *tableRenderer) Render(at time.Time, s system.Snapshot) error {
	rep := newReport(at, s, r.top)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "procmon (press Ctrl+C to exit) | %s\n", at.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&buf, "OS: %s | Kernel: %s | Up: %s\n", rep.OS, rep.Kernel, duration(rep.UpTime))
	fmt.Fprintf(&buf, "CPU: %5.1f%% | Mem: %5.1f%% | Tasks: %d total, %d running\n\n",
		util.Percent(util.Clamp01(rep.CPU)), util.Percent(rep.MemoryUtilization), rep.TotalProcesses, rep.RunningProcesses)

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tUSER\tCPU%\tRAM\tTIME+\tCOMMAND")
	for _, p := range rep.Processes {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%s\t%s\t%s\n",
			p.PID, p.User, util.Percent(p.CPU), types.FromKB(p.RAMKB).Humanized(), duration(p.UpTime), p.Command)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if r.live {
		clearScreen(r.w)
	} else {
		buf.WriteString("\n")
	}
	_, err := r.w.Write(buf.Bytes())
	return err
}

func duration(sec int64) string {
	return (time.Duration(sec) * time.Second).String()
}

//
// json / yaml: one document per tick
//

type jsonRenderer struct {
	enc *json.Encoder
	top int
}

func (r *jsonRenderer) Live() bool   { return false }
func (r *jsonRenderer) Close() error { return nil }

func (r *jsonRenderer) Render(at time.Time, s system.Snapshot) error {
	return r.enc.Encode(newReport(at, s, r.top))
}

type yamlRenderer struct {
	enc *yaml.Encoder
	top int
}

func (r *yamlRenderer) Live() bool   { return false }
func (r *yamlRenderer) Close() error { return r.enc.Close() }

func (r *yamlRenderer) Render(at time.Time, s system.Snapshot) error {
	return r.enc.Encode(newReport(at, s, r.top))
}

//
// csv: one row per process per tick
//

var csvHeader = []string{
	"time", "cpu", "memory", "uptime_sec",
	"pid", "user", "proc_cpu", "ram_kb", "proc_uptime_sec", "command",
}

type csvRenderer struct {
	w      *csv.Writer
	top    int
	header bool
}

func (r *csvRenderer) Live() bool { return false }

func (r *csvRenderer) Close() error {
	r.w.Flush()
	return r.w.Error()
}

func (r *csvRenderer) Render(at time.Time, s system.Snapshot) error {
	if !r.header {
		if err := r.w.Write(csvHeader); err != nil {
			return err
		}
		r.header = true
	}
	rep := newReport(at, s, r.top)
	ts := at.Format(time.RFC3339)
	for _, p := range rep.Processes {
		err := r.w.Write([]string{
			ts, fmtFloat(rep.CPU), fmtFloat(rep.MemoryUtilization), strconv.FormatInt(rep.UpTime, 10),
			strconv.Itoa(p.PID), p.User, fmtFloat(p.CPU), strconv.FormatUint(p.RAMKB, 10),
			strconv.FormatInt(p.UpTime, 10), p.Command,
		})
		if err != nil {
			return err
		}
	}
	r.w.Flush()
	return r.w.Error()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
