package host

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// Terminal reads raw stdin in a background goroutine and hands completed
// bytes to the caller's dispatch loop via Bytes, one at a time, between RunVector
// calls — it never touches CPU state itself, preserving the "only the
// host touches the device page between vectors" rule. Grounded on
// IntuitionEngine's terminal_host.go, adapted to feed a channel instead
// of calling into MMIO state directly from the reader goroutine.
type Terminal struct {
	fd          int
	oldState    *term.State
	nonblockSet bool
	bytes       chan byte
	stopCh      chan struct{}
	done        chan struct{}
	stopped     sync.Once
}

// NewTerminal builds a Terminal bound to os.Stdin. Call Start before the
// first interactive RunVector and Stop before the process exits.
func NewTerminal() *Terminal {
	return &Terminal{
		fd:     int(os.Stdin.Fd()),
		bytes:  make(chan byte, 64),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start puts stdin into raw, non-blocking mode and begins reading.
func (t *Terminal) Start() error {
	oldState, err := term.MakeRaw(t.fd)
	if err != nil {
		close(t.done)
		return fmt.Errorf("terminal: set raw mode: %w", err)
	}
	t.oldState = oldState

	if err := syscall.SetNonblock(t.fd, true); err != nil {
		_ = term.Restore(t.fd, t.oldState)
		t.oldState = nil
		close(t.done)
		return fmt.Errorf("terminal: set nonblocking stdin: %w", err)
	}
	t.nonblockSet = true

	go t.readLoop()
	return nil
}

func (t *Terminal) readLoop() {
	defer close(t.done)
	buf := make([]byte, 1)
	for {
		select {
		case <-t.stopCh:
			return
		default:
		}

		n, err := syscall.Read(t.fd, buf)
		if n > 0 {
			select {
			case t.bytes <- buf[0]:
			case <-t.stopCh:
				return
			}
		}
		switch {
		case err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0:
			time.Sleep(5 * time.Millisecond)
		case err != nil:
			return
		}
	}
}

// Bytes is the channel the host's dispatch loop drains between
// RunVector calls to feed Adapter.DeliverStdin.
func (t *Terminal) Bytes() <-chan byte {
	return t.bytes
}

// Stop terminates the reader goroutine and restores stdin.
func (t *Terminal) Stop() {
	t.stopped.Do(func() { close(t.stopCh) })
	<-t.done
	if t.nonblockSet {
		_ = syscall.SetNonblock(t.fd, false)
		t.nonblockSet = false
	}
	if t.oldState != nil {
		_ = term.Restore(t.fd, t.oldState)
		t.oldState = nil
	}
}
