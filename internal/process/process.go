// Package process owns one engine child process and its stdin/stdout/stderr pipes, and
// multiplexes reads from them up to a deadline or an external interrupt.
//
// The original engine-process manager polls raw file descriptors (stdout, stderr, and a
// wakeup eventfd/pipe) with nix::poll to stay level-triggered past the 1024-fd ceiling of
// select(2). Go has no equivalent fd-count ceiling for this pattern: a goroutine per pipe
// forwarding onto a shared channel, read by a single select loop, gives the same
// level-triggered multiplexing (stdout/stderr/wakeup all ready for select at once) without
// ever touching raw fds directly, so that is the shape used here.
package process

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Stream identifies which pipe a Line was read from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Line is one newline-terminated chunk of output from the engine, timestamped as it
// crossed the pipe.
type Line struct {
	Text   string
	Stream Stream
	Time   time.Time
}

// Status is the outcome of a ReadUntil call.
type Status int

const (
	OK Status = iota
	Timeout
	Crashed
	Interrupted
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Timeout:
		return "timeout"
	case Crashed:
		return "crashed"
	case Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Process manages one engine child process with pipe-based line I/O. A Process owns its
// child and pipes exclusively: no other goroutine should touch the underlying exec.Cmd.
type Process struct {
	iox.AsyncCloser

	logName string

	cmd   *exec.Cmd
	stdin io.WriteCloser

	lines chan Line    // merged stdout+stderr line feed
	fatal chan error   // signalled once, when stdout hits EOF or a read error
	wake  chan struct{} // Interrupt() wakes a blocked ReadUntil

	mu       sync.Mutex
	fatalErr error
}

// Spawn launches command with args in cwd (cwd empty or "." means the caller's current
// directory), wiring piped stdin/stdout/stderr, and starts the background readers. logName
// identifies this process in log lines (e.g. the engine's configured name).
func Spawn(ctx context.Context, cwd, command string, args []string, logName string) (*Process, error) {
	cmd := exec.Command(command, args...)
	if cwd != "" && cwd != "." {
		cmd.Dir = cwd
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("process: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("process: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("process: stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("process: spawn %q: %w", command, err)
	}

	p := &Process{
		AsyncCloser: iox.NewAsyncCloser(),
		logName:     logName,
		cmd:         cmd,
		stdin:       stdin,
		lines:       make(chan Line, 256),
		fatal:       make(chan error, 1),
		wake:        make(chan struct{}, 1),
	}

	go p.pump(ctx, stdout, Stdout)
	go p.pump(ctx, stderr, Stderr)

	logw.Infof(ctx, "%v: spawned (pid %v)", p.logName, cmd.Process.Pid)
	return p, nil
}

func (p *Process) pump(ctx context.Context, r io.ReadCloser, stream Stream) {
	reader := bufio.NewReader(r)
	for {
		text, err := reader.ReadString('\n')
		if text != "" {
			line := Line{Text: strings.TrimRight(text, "\r\n"), Stream: stream, Time: time.Now()}
			logw.Infof(ctx, "%v: %v << %v", p.logName, stream, line.Text)
			select {
			case p.lines <- line:
			case <-p.Closed():
				return
			}
		}
		if err != nil {
			if stream == Stdout {
				p.mu.Lock()
				if p.fatalErr == nil {
					p.fatalErr = fmt.Errorf("engine crashed: %w", err)
				}
				p.mu.Unlock()
				select {
				case p.fatal <- p.fatalErr:
				default:
				}
			}
			return
		}
	}
}

// WriteLine appends a newline and writes text to the engine's stdin.
func (p *Process) WriteLine(ctx context.Context, text string) error {
	if _, err := io.WriteString(p.stdin, text+"\n"); err != nil {
		return fmt.Errorf("process: write to %v: %w", p.logName, err)
	}
	logw.Infof(ctx, "%v: >> %v", p.logName, text)
	return nil
}

// ReadUntil collects Lines until one on Stdout starts with terminatorPrefix, the deadline
// elapses, the process crashes, or Interrupt is called. Whatever lines were collected
// before the terminal event are always returned alongside the Status. A deadline of zero
// or less means no timeout.
func (p *Process) ReadUntil(terminatorPrefix string, deadline time.Duration) ([]Line, Status) {
	var collected []Line

	var timeout <-chan time.Time
	if deadline > 0 {
		timer := time.NewTimer(deadline)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		select {
		case line := <-p.lines:
			collected = append(collected, line)
			if line.Stream == Stdout && terminatorPrefix != "" && strings.HasPrefix(line.Text, terminatorPrefix) {
				return collected, OK
			}

		case <-p.fatal:
			return collected, Crashed

		case <-p.wake:
			return collected, Interrupted

		case <-timeout:
			return collected, Timeout
		}
	}
}

// Interrupt wakes a blocked ReadUntil from any goroutine. Safe to call any number of times.
func (p *Process) Interrupt() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Alive reports whether the child process is still running.
func (p *Process) Alive() bool {
	return p.cmd.ProcessState == nil
}

// Pid returns the child's process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Quit sends the conventional "stop"/"quit" shutdown sequence, tolerating a dead pipe (the
// engine may already have crashed).
func (p *Process) Quit(ctx context.Context) {
	_ = p.WriteLine(ctx, "stop")
	_ = p.WriteLine(ctx, "quit")
}

// Close tears the process down: sends stop/quit, waits up to 5s for a clean exit, then
// kills it. Pipes and reader goroutines stop once the process exits or is killed.
func (p *Process) Close(ctx context.Context) error {
	var closeErr error
	p.AsyncCloser.Close() // signal reader goroutines and any blocked Interrupt waiters

	p.Quit(ctx)

	done := make(chan error, 1)
	go func() { done <- p.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		logw.Warningf(ctx, "%v: did not exit within 5s, killing", p.logName)
		if err := p.cmd.Process.Kill(); err != nil {
			closeErr = fmt.Errorf("process: kill %v: %w", p.logName, err)
		}
		<-done
	}

	_ = p.stdin.Close()
	return closeErr
}
