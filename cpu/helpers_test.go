package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type mockBus struct {
	mem        [0x10000]uint8
	oamWrites  []uint8
	dmaPending bool
	dmaPage    uint8
}

func (m *mockBus) CpuRead(addr uint16, readOnly bool) uint8 {
	return m.mem[addr]
}

func (m *mockBus) CpuWrite(addr uint16, data uint8) {
	if addr == 0x2004 {
		m.oamWrites = append(m.oamWrites, data)
		return
	}
	m.mem[addr] = data
}

func (m *mockBus) TakeDMA() (uint8, bool) {
	pending := m.dmaPending
	m.dmaPending = false
	return m.dmaPage, pending
}

func (m *mockBus) putInstructions(origin uint16, bytes ...uint8) uint16 {
	for i, b := range bytes {
		m.mem[origin+uint16(i)] = b
	}
	return origin + uint16(len(bytes))
}

func (m *mockBus) setVector(vector uint16, addr uint16) {
	m.mem[vector] = uint8(addr)
	m.mem[vector+1] = uint8(addr >> 8)
}

// newTestCPU returns a reset CPU whose PC is origin, with the reset cycles
// already paid.
func newTestCPU(origin uint16) (*CPU, *mockBus) {
	bus := &mockBus{}
	bus.setVector(vectorReset, origin)
	c := NewCPU()
	c.ConnectBus(bus)
	c.Reset()
	c.debt = 0
	return c, bus
}

func step(t *testing.T, c *CPU) int {
	t.Helper()
	n, err := c.Step()
	require.NoError(t, err)
	return n
}
