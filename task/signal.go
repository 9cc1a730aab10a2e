package task

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"
)

// DisableSignalHandling stops the manager reacting to OS signals, e.g. when
// an embedding CLI wants to own SIGINT itself.
func (tm *Manager) DisableSignalHandling() {
	tm.signalMu.Lock()
	defer tm.signalMu.Unlock()

	if tm.signalRegistered && tm.signalChan != nil {
		signal.Stop(tm.signalChan)
		close(tm.signalChan)
		tm.signalRegistered = false
	}
}

func (tm *Manager) registerSignalHandling() {
	tm.signalMu.Lock()
	defer tm.signalMu.Unlock()

	if tm.signalRegistered {
		return
	}

	tm.signalChan = make(chan os.Signal, 2)
	signal.Notify(tm.signalChan, os.Interrupt, syscall.SIGTERM)
	tm.signalRegistered = true

	go tm.handleSignals()
}

// handleSignals escalates across three tiers as repeated signals arrive:
// the first requests a graceful shutdown (cancel tasks, wait up to
// gracefulTimeout), the second forces an exit after dumping goroutine
// stacks, and any signal after that panics immediately rather than risk
// hanging on a wedged goroutine.
func (tm *Manager) handleSignals() {
	count := 0
	var gracefulDone chan bool

	for sig := range tm.signalChan {
		count++

		switch count {
		case 1:
			gracefulDone = make(chan bool, 1)
			go tm.gracefulShutdown(sig, gracefulDone)

			go func() {
				select {
				case <-gracefulDone:
					return
				case <-time.After(tm.gracefulTimeout):
					tm.hardExit("timeout")
				case nextSig := <-tm.signalChan:
					count++
					if count == 2 {
						fmt.Fprintf(os.Stderr, "\nreceived second signal %v, forcing exit\n", nextSig)
						tm.forceExitWithStack()
					} else {
						fmt.Fprintf(os.Stderr, "\nreceived signal #%d, panicking\n", count)
						tm.panicExit()
					}
				}
			}()

		case 2:
			fmt.Fprintf(os.Stderr, "\nreceived second signal %v, forcing exit\n", sig)
			tm.forceExitWithStack()

		default:
			fmt.Fprintf(os.Stderr, "\nreceived signal #%d (%v), panicking\n", count, sig)
			tm.panicExit()
		}
	}
}

func (tm *Manager) gracefulShutdown(sig os.Signal, done chan bool) {
	tm.shutdownSignal.Do(func() {
		fmt.Fprintf(os.Stderr, "\nreceived %v, shutting down gracefully (press Ctrl+C again to force)\n", sig)
		fmt.Fprint(os.Stderr, tm.Debug())

		tm.signalMu.Lock()
		onInterrupt := tm.onInterrupt
		tm.signalMu.Unlock()
		if onInterrupt != nil {
			onInterrupt()
		}

		tm.CancelAll()

		allDone := make(chan bool, 1)
		go func() {
			tm.wg.Wait()
			allDone <- true
		}()

		select {
		case <-allDone:
			fmt.Fprintln(os.Stderr, "all tasks completed gracefully")
			done <- true
			os.Exit(0)
		case <-time.After(tm.gracefulTimeout):
			fmt.Fprintln(os.Stderr, "graceful shutdown timeout reached")
			fmt.Fprint(os.Stderr, tm.Debug())
			done <- true
			os.Exit(1)
		}
	})
}

func (tm *Manager) hardExit(reason string) {
	fmt.Fprintf(os.Stderr, "\nforce exit (%s)\n", reason)
	fmt.Fprint(os.Stderr, tm.Debug())
	tm.CancelAll()
	os.Exit(130)
}

func (tm *Manager) forceExitWithStack() {
	fmt.Fprintln(os.Stderr, "\nforce exit, dumping goroutine stacks")
	tm.CancelAll()

	fmt.Fprintf(os.Stderr, "goroutines: %d\n", runtime.NumGoroutine())
	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	fmt.Fprintf(os.Stderr, "%s\n", buf[:n])

	time.Sleep(1 * time.Second)
	os.Exit(130)
}

func (tm *Manager) panicExit() {
	panic("task manager: process interrupted multiple times, emergency termination")
}
