package spectrum

import "testing"

// ROM that never does anything but NOP forever, with a JP 0x0000 at the
// end of the image so FrameStep never runs off the end of it.
func nopLoopROM() []byte {
	rom := make([]byte, bankSize)
	for i := 0; i < bankSize-3; i++ {
		rom[i] = 0x00 // NOP
	}
	rom[bankSize-3] = 0xC3 // JP 0x0000
	rom[bankSize-2] = 0x00
	rom[bankSize-1] = 0x00
	return rom
}

func TestMachineFrameStepDeliversOneInterruptPerFrame(t *testing.T) {
	rom := nopLoopROM()
	rom[0x38] = 0xFB // EI: the IM1 handler re-enables interrupts for the next frame
	m := NewMachine48K(rom, 1000)
	m.cpu.IFF1 = true
	m.cpu.IM = 1

	interrupts := 0
	for frame := 0; frame < 3; frame++ {
		m.FrameStep()
		if m.cpu.irqPending {
			interrupts++
		}
	}
	if interrupts != 3 {
		t.Fatalf("expected FrameStep to deliver an IM1 interrupt every frame, got %d of 3", interrupts)
	}
}

func TestMachineBorderOut(t *testing.T) {
	m := NewMachine48K(make([]byte, bankSize), 1000)
	m.Out(0xFE, 0x03)
	if m.border != 0x03 {
		t.Fatalf("border = %d, want 3", m.border)
	}
}

func TestMachineKeyboardHalfRow(t *testing.T) {
	m := NewMachine48K(make([]byte, bankSize), 1000)
	m.SetKeyHalfRow(0, 0xFE) // key 0 of half-row 0 pressed
	got := m.In(0xFEFE)      // hi byte 0xFE selects half-row 0
	if got&0x01 != 0 {
		t.Fatalf("pressed key should read back as a cleared bit")
	}
}

func TestMachineKempstonJoystick(t *testing.T) {
	m := NewMachine48K(make([]byte, bankSize), 1000)
	m.SetKempston(0x10)
	if got := m.In(0x001F); got != 0x10 {
		t.Fatalf("Kempston read = 0x%02X, want 0x10", got)
	}
}

func TestMachineVideoSinkCoversFullFrame(t *testing.T) {
	m := NewMachine48K(make([]byte, bankSize), 1000)
	rows := 0
	m.SetVideoSink(func(row int, pixels [ScreenWidth]Color) { rows++ })
	m.FrameStep()
	if rows != ScreenHeight {
		t.Fatalf("rendered %d rows, want %d", rows, ScreenHeight)
	}
}
