// scheduler.go - the cooperative outer loop: batches of CPU steps
// interleaved with timer-tick and keyboard-injection work.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on §5's concurrency model; the batch-of-1000-instructions
// shape mirrors the teacher's own frame-stepping main loop (its
// run loop for tracker playback advances a bounded number of ticks,
// checks a shutdown flag, then yields back to the host event loop).

package main

import "time"

const instructionsPerBatch = 1000

// tickInterval is the 18.206 Hz BIOS timer period.
var tickInterval = time.Duration(float64(time.Second) / 18.206)

// Scheduler drives one Machine's CPU in bounded batches, injecting
// INT 08h timer ticks on a wall-clock schedule and yielding early when
// a blocking service request (keyboard wait) is pending.
type Scheduler struct {
	mc       *Machine
	lastTick time.Time
	InputFn  func() (scancode, ascii byte, ok bool)
}

func NewScheduler(mc *Machine) *Scheduler {
	return &Scheduler{mc: mc, lastTick: time.Now()}
}

// Run drives the machine until it terminates, returning the DOS exit
// code propagated to the host per §1.
func (s *Scheduler) Run() byte {
	for !s.mc.Terminated {
		s.runBatch()
	}
	return s.mc.ExitCode
}

// runBatch executes up to instructionsPerBatch CPU steps, stopping
// early on halt, on a pending keyboard-blocking yield, or when the
// machine terminates mid-batch.
func (s *Scheduler) runBatch() {
	for i := 0; i < instructionsPerBatch && !s.mc.Terminated; i++ {
		if !s.mc.CPU.Step() {
			break
		}
		if s.mc.needsYield {
			s.mc.needsYield = false
			s.serviceYield()
			break
		}
	}
	s.deliverTimerTick()
}

// serviceYield is reached when a blocking service (INT 16h/0, INT
// 21h/01/07/08/0A read) found no input ready. It sleeps briefly,
// polls the host for a keystroke, and lets the caller's batch loop
// retry the same instruction next time through.
func (s *Scheduler) serviceYield() {
	if s.InputFn != nil {
		if scancode, ascii, ok := s.InputFn(); ok {
			s.mc.Keyboard.Push(scancode, ascii)
		}
	}
	time.Sleep(5 * time.Millisecond)
	s.deliverTimerTick()
}

// deliverTimerTick fires INT 08h (and the chained INT 1Ch) on the
// 18.206 Hz schedule if enough wall-clock time has passed and the
// guest has interrupts enabled, per §5's priority-to-timer rule.
func (s *Scheduler) deliverTimerTick() {
	now := time.Now()
	if now.Sub(s.lastTick) < tickInterval {
		return
	}
	s.lastTick = now
	if !s.mc.CPU.Flags.IF {
		return
	}
	s.mc.CPU.raiseInterrupt(0x08)
}

// InjectCtrlC pushes the Ctrl-C keystroke and requests INT 23h at the
// next instruction boundary, per §5's cancellation rules.
func (s *Scheduler) InjectCtrlC() {
	s.mc.Keyboard.InjectCtrlC()
	if s.mc.CPU.Flags.IF {
		s.mc.CPU.raiseInterrupt(0x23)
	}
}
