package process_test

import (
	"context"
	"testing"
	"time"

	"github.com/herohde/fastbench/internal/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoScript is a trivial stdio "engine": it echoes each input line prefixed with "got "
// and exits when it reads "quit".
const echoScript = `
while IFS= read -r line; do
  if [ "$line" = "quit" ]; then
    exit 0
  fi
  echo "got $line"
done
`

func spawnEcho(t *testing.T) *process.Process {
	t.Helper()
	p, err := process.Spawn(context.Background(), "", "/bin/sh", []string{"-c", echoScript}, "echo")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p
}

func TestWriteAndReadUntil(t *testing.T) {
	p := spawnEcho(t)

	require.NoError(t, p.WriteLine(context.Background(), "ping"))

	lines, status := p.ReadUntil("got", 2*time.Second)
	assert.Equal(t, process.OK, status)
	require.Len(t, lines, 1)
	assert.Equal(t, "got ping", lines[0].Text)
	assert.Equal(t, process.Stdout, lines[0].Stream)
}

func TestReadUntilTimeout(t *testing.T) {
	p := spawnEcho(t)

	lines, status := p.ReadUntil("bestmove", 100*time.Millisecond)
	assert.Equal(t, process.Timeout, status)
	assert.Empty(t, lines)
}

func TestInterrupt(t *testing.T) {
	p := spawnEcho(t)

	done := make(chan process.Status, 1)
	go func() {
		_, status := p.ReadUntil("bestmove", 5*time.Second)
		done <- status
	}()

	time.Sleep(50 * time.Millisecond)
	p.Interrupt()

	select {
	case status := <-done:
		assert.Equal(t, process.Interrupted, status)
	case <-time.After(2 * time.Second):
		t.Fatal("ReadUntil did not return after Interrupt")
	}
}

func TestCrashDetected(t *testing.T) {
	p, err := process.Spawn(context.Background(), "", "/bin/sh", []string{"-c", "exit 1"}, "dying")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close(context.Background()) })

	_, status := p.ReadUntil("bestmove", 2*time.Second)
	assert.Equal(t, process.Crashed, status)
}
