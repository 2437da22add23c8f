// psp_test.go - Program Segment Prefix layout and command-tail tests.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPSP_InitWritesInt20Stub(t *testing.T) {
	mc := NewMachine(nil, ".")
	mc.PSPs.Init(mc, 0x2000, 0x3000, 0, 0, "")

	assert.Equal(t, byte(0xCD), mc.Memory.Read8(0x2000, pspINT20))
	assert.Equal(t, byte(0x20), mc.Memory.Read8(0x2000, pspINT20+1))
}

func TestPSP_InitWritesParentAndEnv(t *testing.T) {
	mc := NewMachine(nil, ".")
	mc.PSPs.Init(mc, 0x2000, 0x3000, 0x1000, 0x1500, "")

	assert.Equal(t, uint16(0x1000), mc.Memory.Read16(0x2000, pspParentPSP))
	assert.Equal(t, uint16(0x1500), mc.Memory.Read16(0x2000, pspEnvSegment))
	assert.Equal(t, uint16(0x3000), mc.Memory.Read16(0x2000, pspTopOfMemory))
}

func TestPSP_CommandTailRoundTrips(t *testing.T) {
	mc := NewMachine(nil, ".")
	mc.PSPs.Init(mc, 0x2000, 0x3000, 0, 0, "FOO.TXT /s")

	p := mc.PSPs.Get(0x2000)
	require.NotNil(t, p)
	assert.Equal(t, "FOO.TXT /s", p.CommandTail())
	assert.Equal(t, byte(0x0D), mc.Memory.Read8(0x2000, pspCmdTail+uint16(len("FOO.TXT /s"))))
}

func TestPSP_StandardHandleTablePrefix(t *testing.T) {
	mc := NewMachine(nil, ".")
	mc.PSPs.Init(mc, 0x2000, 0x3000, 0, 0, "")

	for i := byte(0); i < 5; i++ {
		assert.Equal(t, i, mc.Memory.Read8(0x2000, pspHandleTable+uint16(i)))
	}
	assert.Equal(t, byte(0xFF), mc.Memory.Read8(0x2000, pspHandleTable+5))
}

func TestPSP_TerminateAddressRoundTrips(t *testing.T) {
	mc := NewMachine(nil, ".")
	p := mc.PSPs.Init(mc, 0x2000, 0x3000, 0, 0, "")
	p.SetTerminateAddress(0x1234, 0x5678)

	cs, ip := p.TerminateAddress()
	assert.Equal(t, uint16(0x1234), cs)
	assert.Equal(t, uint16(0x5678), ip)
}

func TestPSP_ParentStackRoundTrips(t *testing.T) {
	mc := NewMachine(nil, ".")
	p := mc.PSPs.Init(mc, 0x2000, 0x3000, 0, 0, "")
	p.SaveParentStack(0xAAAA, 0xBBBB)

	ss, sp := p.ParentStack()
	assert.Equal(t, uint16(0xAAAA), ss)
	assert.Equal(t, uint16(0xBBBB), sp)
}

func TestFirstArgWord_SplitsOnWhitespace(t *testing.T) {
	first, rest := firstArgWord("  FOO.TXT BAR.TXT baz")
	assert.Equal(t, "FOO.TXT", first)
	assert.Equal(t, "BAR.TXT", rest)
}

func TestFirstArgWord_EmptyTail(t *testing.T) {
	first, rest := firstArgWord("")
	assert.Equal(t, "", first)
	assert.Equal(t, "", rest)
}

func TestPSP_GetAndRemove(t *testing.T) {
	mc := NewMachine(nil, ".")
	mc.PSPs.Init(mc, 0x2000, 0x3000, 0, 0, "")
	require.NotNil(t, mc.PSPs.Get(0x2000))

	mc.PSPs.Remove(0x2000)
	assert.Nil(t, mc.PSPs.Get(0x2000))
}
