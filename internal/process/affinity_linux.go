//go:build linux

package process

import "golang.org/x/sys/unix"

// SetCPUAffinity pins the child process to the given logical CPUs. Best-effort: failures
// are swallowed, matching the original's own "returns false on non-Linux, ignore result"
// design — a tournament should still run, just without pinning, if the platform or
// permissions don't cooperate.
func (p *Process) SetCPUAffinity(cpus []int) bool {
	if len(cpus) == 0 {
		return true
	}
	var set unix.CPUSet
	set.Zero()
	for _, cpu := range cpus {
		set.Set(cpu)
	}
	return unix.SchedSetaffinity(p.Pid(), &set) == nil
}
