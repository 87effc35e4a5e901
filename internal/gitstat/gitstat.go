// Package gitstat measures uncommitted line changes in a git work tree.
package gitstat

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Timeout bounds a single git invocation.
const Timeout = 5 * time.Second

// LocDelta counts lines added and removed.
type LocDelta struct {
	Added   uint64
	Removed uint64
}

func (d LocDelta) String() string {
	return fmt.Sprintf("+%d -%d", d.Added, d.Removed)
}

// ParseNumstat sums the output of git diff --numstat. Binary files ("-")
// and malformed lines are skipped.
func ParseNumstat(out string) LocDelta {
	var d LocDelta
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		fields := strings.SplitN(sc.Text(), "\t", 3)
		if len(fields) < 2 {
			continue
		}
		a, errA := strconv.ParseUint(fields[0], 10, 64)
		r, errR := strconv.ParseUint(fields[1], 10, 64)
		if errA != nil || errR != nil {
			continue
		}
		d.Added += a
		d.Removed += r
	}
	return d
}

// Diff runs git diff --numstat in repo and sums the result.
func Diff(ctx context.Context, repo string) (LocDelta, error) {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "-C", repo, "diff", "--numstat") //nolint:gosec // repo comes from the user's own configuration
	out, err := cmd.Output()
	if err != nil {
		return LocDelta{}, fmt.Errorf("git diff in %s: %w", repo, err)
	}
	return ParseNumstat(string(out)), nil
}
