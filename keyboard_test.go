// keyboard_test.go - BIOS keyboard ring buffer tests.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "testing"

func TestKeyboard_EmptyInitially(t *testing.T) {
	mc := NewMachine(nil, ".")
	if !mc.Keyboard.Empty() {
		t.Error("a fresh keyboard ring must be empty")
	}
}

func TestKeyboard_PushPopRoundTrip(t *testing.T) {
	mc := NewMachine(nil, ".")
	if !mc.Keyboard.Push(0x1E, 'a') {
		t.Fatal("Push must succeed on an empty ring")
	}
	sc, ascii, ok := mc.Keyboard.Pop()
	if !ok || sc != 0x1E || ascii != 'a' {
		t.Errorf("Pop: got (0x%02X,%q,%v), want (0x1E,'a',true)", sc, ascii, ok)
	}
	if !mc.Keyboard.Empty() {
		t.Error("ring must be empty again after popping its only entry")
	}
}

func TestKeyboard_PeekDoesNotConsume(t *testing.T) {
	mc := NewMachine(nil, ".")
	mc.Keyboard.Push(0x30, 'b')
	mc.Keyboard.Peek()
	if mc.Keyboard.Empty() {
		t.Error("Peek must not consume the entry")
	}
	sc, ascii, ok := mc.Keyboard.Pop()
	if !ok || sc != 0x30 || ascii != 'b' {
		t.Errorf("Pop after Peek: got (0x%02X,%q,%v)", sc, ascii, ok)
	}
}

func TestKeyboard_FullRingDropsInsteadOfOverwriting(t *testing.T) {
	mc := NewMachine(nil, ".")
	slots := int(mc.Keyboard.ringSlots())
	pushed := 0
	for i := 0; i < slots+5; i++ {
		if mc.Keyboard.Push(byte(i), byte(i)) {
			pushed++
		}
	}
	if pushed != slots-1 {
		t.Errorf("entries accepted before full: got %d, want %d (one slot kept as the full/empty sentinel gap)", pushed, slots-1)
	}
	// First entry must still be the oldest one pushed (scancode 0).
	sc, _, ok := mc.Keyboard.Peek()
	if !ok || sc != 0 {
		t.Errorf("oldest entry: got scancode %d ok=%v, want 0/true", sc, ok)
	}
}

func TestKeyboard_InjectCtrlCPushesConventionalKeystroke(t *testing.T) {
	mc := NewMachine(nil, ".")
	mc.Keyboard.InjectCtrlC()
	sc, ascii, ok := mc.Keyboard.Pop()
	if !ok || sc != 0x2E || ascii != 0x03 {
		t.Errorf("Ctrl-C keystroke: got (0x%02X,0x%02X,%v), want (0x2E,0x03,true)", sc, ascii, ok)
	}
}
