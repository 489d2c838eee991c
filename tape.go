// tape.go - TAP file loading and tape-replay pulse state machine,
// grounded on original_source/src/tape.rs for the exact phase durations
// and on the pack's own ay_parser.go/sid_parser.go for the stdlib-errors
// format-loader idiom.

package spectrum

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncatedTape is returned when a TAP file's declared block length
// runs past the end of the file.
var ErrTruncatedTape = errors.New("tape: truncated block")

// TapeBlockType mirrors the first byte of a TAP header block.
type TapeBlockType byte

const (
	TapeBlockProgram TapeBlockType = 0
	TapeBlockArray   TapeBlockType = 1
	TapeBlockBytes   TapeBlockType = 3
)

// TapeBlock is one length-prefixed chunk of a TAP file.
type TapeBlock struct {
	Data       []byte
	Name       string
	Selectable bool // true for header blocks (length 19, first byte 0)
}

// LoadTAP parses a concatenated sequence of TAP blocks.
func LoadTAP(data []byte) ([]TapeBlock, error) {
	var blocks []TapeBlock
	for len(data) > 0 {
		if len(data) < 2 {
			return nil, ErrTruncatedTape
		}
		length := binary.LittleEndian.Uint16(data)
		data = data[2:]
		if int(length) > len(data) {
			return nil, fmt.Errorf("tape: block declares %d bytes, only %d remain: %w", length, len(data), ErrTruncatedTape)
		}
		block := data[:length]
		data = data[length:]

		blk := TapeBlock{Data: append([]byte(nil), block...)}
		if length == 19 && len(block) > 0 && block[0] == 0 {
			blk.Selectable = true
			if len(block) >= 12 {
				blk.Name = string(block[2:12])
			}
		}
		blocks = append(blocks, blk)
	}
	return blocks, nil
}

// tapePhase is a state in the pulse-replay state machine.
type tapePhase int

const (
	phasePause tapePhase = iota
	phaseLeader
	phaseFirstSync
	phaseSecondSync
	phaseData
	phaseEnd
)

const (
	tPause       = 500_000
	tLeaderPulse = 2168
	tFirstSync   = 667
	tSecondSync  = 735
	tDataBit0    = 855
	tDataBit1    = 1710
	tEnd         = 2_500_000

	leaderPulsesHeader = 8063
	leaderPulsesData   = 3223
)

// TapePosition locates the replay state machine within the loaded tape.
type TapePosition struct {
	Block      int
	Phase      tapePhase
	remaining  int  // T-states left in the current pulse/phase
	pulse      int  // pulse counter within Leader
	byteIdx    int  // byte offset within the block, during Data
	bitIdx     int  // bit offset 0..7 within the current byte, during Data
	secondHalf bool // which half-pulse of the current data bit we're in
}

// Tape holds the loaded blocks and drives position transitions.
type Tape struct {
	blocks []TapeBlock
}

func NewTape(blocks []TapeBlock) *Tape {
	return &Tape{blocks: blocks}
}

// StartPosition returns the position a freshly-inserted tape begins at.
func (tp *Tape) StartPosition() TapePosition {
	return tp.enterPause(0)
}

func (tp *Tape) enterPause(block int) TapePosition {
	return TapePosition{Block: block, Phase: phasePause, remaining: tPause}
}

func (tp *Tape) enterLeader(block int) TapePosition {
	n := leaderPulsesData
	if block < len(tp.blocks) && tp.blocks[block].Selectable {
		n = leaderPulsesHeader
	}
	return TapePosition{Block: block, Phase: phaseLeader, remaining: tLeaderPulse, pulse: n}
}

func (tp *Tape) enterData(block int) TapePosition {
	pos := TapePosition{Block: block, Phase: phaseData}
	pos.remaining = tp.bitPulseLength(block, 0, 0)
	return pos
}

func (tp *Tape) bitPulseLength(block, byteIdx, bitIdx int) int {
	if block >= len(tp.blocks) {
		return tDataBit0
	}
	data := tp.blocks[block].Data
	if byteIdx >= len(data) {
		return tDataBit0
	}
	bit := data[byteIdx]&(0x80>>uint(bitIdx)) != 0
	if bit {
		return tDataBit1
	}
	return tDataBit0
}

// Play advances the state machine by elapsedT T-states, returning the
// new position, or (pos, false) once the tape has run past End.
func (tp *Tape) Play(elapsedT int, pos TapePosition) (TapePosition, bool) {
	for elapsedT > 0 {
		if pos.Phase == phaseEnd && pos.remaining <= 0 {
			return pos, false
		}
		step := elapsedT
		if step > pos.remaining {
			step = pos.remaining
		}
		pos.remaining -= step
		elapsedT -= step

		if pos.remaining > 0 {
			continue
		}

		switch pos.Phase {
		case phasePause:
			pos = tp.enterLeader(pos.Block)
		case phaseLeader:
			pos.pulse--
			if pos.pulse <= 0 {
				pos.Phase = phaseFirstSync
				pos.remaining = tFirstSync
			} else {
				pos.remaining = tLeaderPulse
			}
		case phaseFirstSync:
			pos.Phase = phaseSecondSync
			pos.remaining = tSecondSync
		case phaseSecondSync:
			pos = tp.enterData(pos.Block)
		case phaseData:
			if !pos.secondHalf {
				pos.secondHalf = true
				pos.remaining = tp.bitPulseLength(pos.Block, pos.byteIdx, pos.bitIdx)
				continue
			}
			pos.secondHalf = false
			pos.bitIdx++
			if pos.bitIdx >= 8 {
				pos.bitIdx = 0
				pos.byteIdx++
			}
			block := tp.blocks[pos.Block]
			if pos.byteIdx >= len(block.Data) {
				pos.Phase = phaseEnd
				pos.remaining = tEnd
			} else {
				pos.remaining = tp.bitPulseLength(pos.Block, pos.byteIdx, pos.bitIdx)
			}
		case phaseEnd:
			pos.Block++
			if pos.Block >= len(tp.blocks) {
				return pos, false
			}
			pos = tp.enterPause(pos.Block)
		}
	}
	return pos, true
}

// MIC returns the current MIC bit level for a position.
func (tp *Tape) MIC(pos TapePosition) bool {
	switch pos.Phase {
	case phasePause:
		return false
	case phaseLeader:
		return pos.pulse%2 == 0
	case phaseFirstSync:
		return false
	case phaseSecondSync:
		return true
	case phaseData:
		return pos.secondHalf
	default:
		return false
	}
}
