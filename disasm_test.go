package spectrum

import "testing"

func TestDisassembleZ80NOPAndJP(t *testing.T) {
	program := []byte{0x00, 0xC3, 0x34, 0x12}
	read := func(addr uint64, size int) []byte {
		end := int(addr) + size
		if end > len(program) {
			end = len(program)
		}
		if int(addr) >= len(program) {
			return nil
		}
		return program[addr:end]
	}

	lines := DisassembleZ80(read, 0, 2)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Size != 1 {
		t.Fatalf("NOP size = %d, want 1", lines[0].Size)
	}
	if !lines[1].IsBranch || lines[1].BranchTarget != 0x1234 {
		t.Fatalf("JP nn should be a branch to 0x1234, got %+v", lines[1])
	}
}

func TestDisassembleZ80StopsAtEndOfMemory(t *testing.T) {
	read := func(addr uint64, size int) []byte { return nil }
	lines := DisassembleZ80(read, 0, 5)
	if len(lines) != 0 {
		t.Fatalf("expected no lines when readMem is exhausted immediately")
	}
}
