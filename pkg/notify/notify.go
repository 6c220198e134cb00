// Package notify provides host-side implementations of the expiry.Notifier
// contract: a logging notifier for dry runs and a timer-backed notifier that
// execs a desktop notification command when an alert's delay elapses.
package notify

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/pantrywatch/pantrywatch/pkg/expiry"
)

// LogNotifier reports what would happen without touching the device. Used by
// --dry-run and tests.
type LogNotifier struct {
	Log expiry.Logger
}

func (n *LogNotifier) CancelAll(ctx context.Context) error {
	n.Log.Debugf("dry-run: cancel all pending notifications")
	return nil
}

func (n *LogNotifier) Schedule(ctx context.Context, req expiry.Request) error {
	n.Log.Infof("dry-run: would notify in %ds: %s — %s", req.DelaySeconds, req.Title, req.Body)
	return nil
}

// CommandNotifier arms one in-process timer per alert and runs a command
// (default: notify-send) with the alert title and body when the delay
// elapses. CancelAll stops every armed timer that has not fired yet; fired
// ones are already on the user's screen and out of reach, matching how a
// phone's delivered tray notifications behave.
type CommandNotifier struct {
	// Command is the argv prefix to run; title and body are appended.
	Command []string
	Log     expiry.Logger

	// fire and tick are swappable for tests; they default to running Command
	// and to one real second per delay unit.
	fire func(title, body string)
	tick time.Duration

	mu     sync.Mutex
	nextID int
	timers map[int]*time.Timer
	wg     sync.WaitGroup
}

func NewCommandNotifier(command []string, log expiry.Logger) *CommandNotifier {
	if len(command) == 0 {
		command = []string{"notify-send"}
	}
	n := &CommandNotifier{
		Command: command,
		Log:     log,
		timers:  make(map[int]*time.Timer),
		tick:    time.Second,
	}
	n.fire = n.runCommand
	return n
}

func (n *CommandNotifier) CancelAll(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, t := range n.timers {
		if t.Stop() {
			n.wg.Done()
		}
		delete(n.timers, id)
	}
	return nil
}

func (n *CommandNotifier) Schedule(ctx context.Context, req expiry.Request) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.wg.Add(1)
	n.timers[id] = time.AfterFunc(time.Duration(req.DelaySeconds)*n.tick, func() {
		defer n.wg.Done()
		n.mu.Lock()
		delete(n.timers, id)
		n.mu.Unlock()
		n.fire(req.Title, req.Body)
	})
	return nil
}

// Wait blocks until every armed alert has either fired or been canceled.
func (n *CommandNotifier) Wait() {
	n.wg.Wait()
}

// Pending reports how many alerts are armed but not yet fired.
func (n *CommandNotifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.timers)
}

func (n *CommandNotifier) runCommand(title, body string) {
	args := append(append([]string{}, n.Command[1:]...), title, body)
	if err := exec.Command(n.Command[0], args...).Run(); err != nil {
		n.Log.Errorf("notification command failed: %v", err)
	}
}
