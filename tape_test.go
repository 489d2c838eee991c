package spectrum

import "testing"

func buildTAP(blocks [][]byte) []byte {
	var out []byte
	for _, b := range blocks {
		out = append(out, byte(len(b)), byte(len(b)>>8))
		out = append(out, b...)
	}
	return out
}

func TestLoadTAPBasic(t *testing.T) {
	header := make([]byte, 19)
	header[0] = 0
	copy(header[2:12], "PROGRAM   ")
	dataBlock := []byte{0xFF, 0x01, 0x02, 0x03, 0x00}

	raw := buildTAP([][]byte{header, dataBlock})
	blocks, err := LoadTAP(raw)
	if err != nil {
		t.Fatalf("LoadTAP: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if !blocks[0].Selectable {
		t.Fatalf("header block should be selectable")
	}
	if blocks[0].Name != "PROGRAM   " {
		t.Fatalf("header name = %q", blocks[0].Name)
	}
	if blocks[1].Selectable {
		t.Fatalf("data block should not be selectable")
	}
}

func TestLoadTAPTruncated(t *testing.T) {
	_, err := LoadTAP([]byte{0x05, 0x00, 0x01, 0x02})
	if err == nil {
		t.Fatalf("expected truncation error")
	}
}

func TestTapePlayThroughPauseLeaderSync(t *testing.T) {
	dataBlock := []byte{0x00, 0xFF}
	blocks := []TapeBlock{{Data: dataBlock}}
	tape := NewTape(blocks)
	pos := tape.StartPosition()

	if pos.Phase != phasePause {
		t.Fatalf("initial phase should be Pause")
	}
	pos, ok := tape.Play(tPause, pos)
	if !ok {
		t.Fatalf("tape should still be playing")
	}
	if pos.Phase != phaseLeader {
		t.Fatalf("phase after Pause should be Leader, got %v", pos.Phase)
	}
}

func TestTapeRunsToCompletion(t *testing.T) {
	blocks := []TapeBlock{{Data: []byte{0xAA}}}
	tape := NewTape(blocks)
	pos := tape.StartPosition()

	ok := true
	for i := 0; i < 2_000_000 && ok; i++ {
		pos, ok = tape.Play(1000, pos)
	}
	if ok {
		t.Fatalf("single-block tape should have finished playing")
	}
}
