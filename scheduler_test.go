// scheduler_test.go - cooperative batch-loop and timer-tick tests.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"testing"
	"time"
)

func TestScheduler_RunReturnsExitCodeOnceTerminated(t *testing.T) {
	mc := newTestMachine()
	// Terminated is normally set by the exit-process service call; set
	// it directly here since Run's loop condition is checked up front,
	// so this exercises Run's own contract without driving a real exit.
	mc.Terminated = true
	mc.ExitCode = 7
	sched := NewScheduler(mc)

	if code := sched.Run(); code != 7 {
		t.Errorf("exit code: got %d, want 7", code)
	}
}

func TestScheduler_DeliverTimerTickRespectsInterruptFlag(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Flags.IF = false
	sched := NewScheduler(mc)
	sched.lastTick = time.Now().Add(-time.Second)

	sched.deliverTimerTick()

	if mc.CPU.Regs.CS == emulatorStubSegment {
		t.Error("timer tick must not fire while IF is clear")
	}
}

func TestScheduler_DeliverTimerTickFiresWhenDue(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Flags.IF = true
	sched := NewScheduler(mc)
	sched.lastTick = time.Now().Add(-time.Second)

	sched.deliverTimerTick()

	if mc.CPU.Regs.CS != emulatorStubSegment {
		t.Errorf("timer tick must dispatch through the interrupt stub: CS got 0x%04X, want 0x%04X", mc.CPU.Regs.CS, emulatorStubSegment)
	}
}

func TestScheduler_DeliverTimerTickSkipsWhenNotDue(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Flags.IF = true
	sched := NewScheduler(mc)
	sched.lastTick = time.Now()

	sched.deliverTimerTick()

	if mc.CPU.Regs.CS == emulatorStubSegment {
		t.Error("timer tick must not fire before tickInterval has elapsed")
	}
}

func TestScheduler_InjectCtrlCPushesKeystrokeAndInterrupt(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Flags.IF = true
	sched := NewScheduler(mc)

	sched.InjectCtrlC()

	if mc.CPU.Regs.CS != emulatorStubSegment {
		t.Errorf("InjectCtrlC must raise INT 23h through the stub: CS got 0x%04X, want 0x%04X", mc.CPU.Regs.CS, emulatorStubSegment)
	}
}
