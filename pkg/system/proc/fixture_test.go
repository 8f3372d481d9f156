//go:build linux

package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeProc is a synthetic proc tree rooted in a temp dir.
type fakeProc struct {
	t         *testing.T
	root      string
	osRelease string
	passwd    string
}

func newFakeProc(t *testing.T) *fakeProc {
	t.Helper()
	dir := t.TempDir()
	f := &fakeProc{
		t:         t,
		root:      filepath.Join(dir, "proc"),
		osRelease: filepath.Join(dir, "etc", "os-release"),
		passwd:    filepath.Join(dir, "etc", "passwd"),
	}
	require.NoError(t, os.MkdirAll(f.root, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(f.passwd), 0o755))
	return f
}

func (f *fakeProc) writeFile(path, content string) {
	f.t.Helper()
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0o644))
}

func (f *fakeProc) write(rel, content string) {
	f.writeFile(filepath.Join(f.root, rel), content)
}

func (f *fakeProc) writePid(pid int, name, content string) {
	f.write(filepath.Join(strconv.Itoa(pid), name), content)
}

func (f *fakeProc) parser(opts ...Option) *Parser {
	base := []Option{WithRoot(f.root), WithOSRelease(f.osRelease), WithPasswd(f.passwd), WithClockTicks(100)}
	return New(append(base, opts...)...)
}

// statLine renders a /proc/<pid>/stat line with the given jiffy counters
// at fields 14-17 and start time at field 22.
func statLine(pid int, comm string, utime, stime, cutime, cstime, start int64) string {
	fields := make([]string, 0, 44)
	fields = append(fields, strconv.Itoa(pid), "("+comm+")", "S")
	for i := 4; i <= 13; i++ {
		fields = append(fields, "0")
	}
	fields = append(fields,
		strconv.FormatInt(utime, 10), strconv.FormatInt(stime, 10),
		strconv.FormatInt(cutime, 10), strconv.FormatInt(cstime, 10))
	for i := 18; i <= 21; i++ {
		fields = append(fields, "0")
	}
	fields = append(fields, strconv.FormatInt(start, 10))
	for i := 23; i <= 44; i++ {
		fields = append(fields, "0")
	}
	return strings.Join(fields, " ") + "\n"
}

func statusRecord(name string, vmSizeKB uint64, uid int) string {
	return fmt.Sprintf("Name:\t%s\nState:\tS (sleeping)\nUid:\t%d\t%d\t%d\t%d\nVmSize:\t%8d kB\nVmRSS:\t    1024 kB\n",
		name, uid, uid, uid, uid, vmSizeKB)
}
