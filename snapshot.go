// snapshot.go - the canonical 29-byte Z80 register blob plus the
// surrounding machine snapshot (memory banks, bank-select state),
// grounded on original_source/src/z80/mod.rs's field order.

package spectrum

import "errors"

// ErrInvalidSnapshot is returned when a snapshot's IM or NextOp byte is
// out of range; on this error the target state is left untouched.
var ErrInvalidSnapshot = errors.New("snapshot: invalid register blob")

const z80BlobSize = 29

const (
	nextOpFetch byte = 0
	nextOpHalt  byte = 2
)

// SaveBlob emits the canonical 29-byte register blob. A pending
// interrupt acknowledgement is flattened into Fetch with IFF1=true, per
// the save/load round-trip contract.
func (c *Z80) SaveBlob() [z80BlobSize]byte {
	var b [z80BlobSize]byte
	b[0] = byte(c.PC)
	b[1] = byte(c.PC >> 8)
	b[2] = byte(c.SP)
	b[3] = byte(c.SP >> 8)
	b[4] = c.F
	b[5] = c.A
	b[6] = c.F2
	b[7] = c.A2
	b[8] = c.C
	b[9] = c.B
	b[10] = c.C2
	b[11] = c.B2
	b[12] = c.E
	b[13] = c.D
	b[14] = c.E2
	b[15] = c.D2
	b[16] = byte(c.L)
	b[17] = byte(c.H)
	b[18] = c.L2
	b[19] = c.H2
	b[20] = byte(c.IX)
	b[21] = byte(c.IX >> 8)
	b[22] = byte(c.IY)
	b[23] = byte(c.IY >> 8)
	b[24] = c.R
	b[25] = c.I

	iff1 := byte(0)
	if c.IFF1 || c.irqPending {
		iff1 = 1
	}
	b[26] = iff1
	b[27] = c.IM

	nextOp := nextOpFetch
	if c.Halted {
		nextOp = nextOpHalt
	}
	b[28] = nextOp
	return b
}

// LoadBlob restores CPU state from a 29-byte register blob. A pending
// interrupt is never represented on load (NextOp only distinguishes
// Fetch from Halt); an out-of-range IM or NextOp byte fails without
// mutating any state.
func (c *Z80) LoadBlob(b [z80BlobSize]byte) error {
	if b[27] > 2 {
		return ErrInvalidSnapshot
	}
	if b[28] != nextOpFetch && b[28] != nextOpHalt {
		return ErrInvalidSnapshot
	}

	c.PC = uint16(b[0]) | uint16(b[1])<<8
	c.SP = uint16(b[2]) | uint16(b[3])<<8
	c.F = b[4]
	c.A = b[5]
	c.F2 = b[6]
	c.A2 = b[7]
	c.C = b[8]
	c.B = b[9]
	c.C2 = b[10]
	c.B2 = b[11]
	c.E = b[12]
	c.D = b[13]
	c.E2 = b[14]
	c.D2 = b[15]
	c.L = b[16]
	c.H = b[17]
	c.L2 = b[18]
	c.H2 = b[19]
	c.IX = uint16(b[20]) | uint16(b[21])<<8
	c.IY = uint16(b[22]) | uint16(b[23])<<8
	c.R = b[24]
	c.I = b[25]
	c.IFF1 = b[26] != 0
	c.IFF2 = b[26] != 0
	c.IM = b[27]
	c.Halted = b[28] == nextOpHalt
	c.irqPending = false
	return nil
}

// MachineSnapshot is the full CPU + memory state, atomically swapped in
// by LoadMachineSnapshot.
type MachineSnapshot struct {
	CPU        [z80BlobSize]byte
	BankSelect byte
	ROMSelect  byte
	Banks      [][bankSize]byte
}

// SaveMachineSnapshot captures the Machine's full state.
func (m *Machine) SaveMachineSnapshot() MachineSnapshot {
	snap := MachineSnapshot{
		CPU:        m.cpu.SaveBlob(),
		BankSelect: m.memory.BankSelectByte(),
	}
	if m.memory.is128K {
		snap.ROMSelect = 1
	}
	n := m.memory.RAMBankCount()
	snap.Banks = make([][bankSize]byte, n)
	for i := 0; i < n; i++ {
		snap.Banks[i] = *m.memory.RAMBank(i)
	}
	return snap
}

// LoadMachineSnapshot restores a previously captured snapshot atomically:
// on a CPU-blob validation failure, no memory is touched either.
func (m *Machine) LoadMachineSnapshot(snap MachineSnapshot) error {
	if err := m.cpu.LoadBlob(snap.CPU); err != nil {
		return err
	}
	m.memory.mu.Lock()
	m.memory.locked = false // a lock set by the running program must not block the restore
	m.memory.mu.Unlock()
	m.memory.SwitchBanks(snap.BankSelect &^ 0x20) // without bit 5, so the lock is only re-applied below
	for i, bank := range snap.Banks {
		if i < len(m.memory.ram) {
			*m.memory.RAMBank(i) = bank
		}
	}
	m.memory.SwitchBanks(snap.BankSelect)
	return nil
}
