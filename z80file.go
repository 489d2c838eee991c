// z80file.go - loader for the classic .z80 snapshot file format
// (v1/v2/v3), grounded on original_source/src/z80/mod.rs's
// load_format_z80 and on the pack's ay_parser.go/sid_parser.go stdlib-
// errors format-loader idiom.

package spectrum

import (
	"encoding/binary"
	"fmt"
)

// Z80FileSnapshot is the result of parsing a .z80 file: register state
// plus the decompressed 48K (or 128K) memory image, slot-ordered.
type Z80FileSnapshot struct {
	CPU       [z80BlobSize]byte
	Is128K    bool
	Memory48K []byte     // 48 KiB, present only when !Is128K
	Banks     [][]byte   // 8 x 16 KiB RAM banks, present only when Is128K
	BankSel   byte
}

// LoadZ80File parses a .z80 v1/v2/v3 file.
func LoadZ80File(data []byte) (*Z80FileSnapshot, error) {
	if len(data) < 30 {
		return nil, fmt.Errorf("z80file: header truncated, got %d bytes", len(data))
	}

	var blob [z80BlobSize]byte
	pc := binary.LittleEndian.Uint16(data[6:8])
	blob[2] = data[8]  // SP lo
	blob[3] = data[9]  // SP hi
	blob[4] = data[12] // F
	blob[5] = data[0]  // A
	blob[8] = data[3]  // C
	blob[9] = data[2]  // B
	blob[12] = data[14] // E  (DE lo)
	blob[13] = data[13] // D
	blob[16] = data[11] // L  (HL lo)
	blob[17] = data[10] // H
	blob[25] = data[16] // I
	r7 := data[12]&0x01 != 0
	rVal := data[1] & 0x7F
	if r7 {
		rVal |= 0x80
	}
	blob[24] = rVal

	im := data[29] & 0x03
	switch {
	case im >= 2:
		blob[27] = 2
	case im == 1:
		blob[27] = 1
	default:
		blob[27] = 0
	}
	if data[27] != 0 {
		blob[26] = 1 // IFF1
	}
	blob[28] = nextOpFetch

	isV1 := pc != 0
	if isV1 {
		blob[0] = byte(pc)
		blob[1] = byte(pc >> 8)
		snap := &Z80FileSnapshot{CPU: blob}
		body := data[30:]
		mem, err := decompressV1Body(body, data[12]&0x20 != 0)
		if err != nil {
			return nil, fmt.Errorf("z80file: %w", err)
		}
		snap.Memory48K = mem
		return snap, nil
	}

	if len(data) < 32 {
		return nil, fmt.Errorf("z80file: v2/v3 extended header truncated")
	}
	extraLen := int(binary.LittleEndian.Uint16(data[30:32]))
	if len(data) < 32+extraLen {
		return nil, fmt.Errorf("z80file: extended header declares %d bytes, file too short", extraLen)
	}
	ext := data[32 : 32+extraLen]
	if len(ext) < 4 {
		return nil, fmt.Errorf("z80file: extended header too short")
	}
	pc2 := binary.LittleEndian.Uint16(ext[0:2])
	blob[0] = byte(pc2)
	blob[1] = byte(pc2 >> 8)

	hwMode := ext[2]
	is128K := hwMode >= 3

	snap := &Z80FileSnapshot{CPU: blob, Is128K: is128K}

	pageData := data[32+extraLen:]
	if is128K {
		banks := make([][]byte, 8)
		for i := range banks {
			banks[i] = make([]byte, bankSize)
		}
		for len(pageData) > 0 {
			if len(pageData) < 3 {
				break
			}
			length := binary.LittleEndian.Uint16(pageData[0:2])
			page := pageData[2]
			pageData = pageData[3:]
			bankNum := z80PageToBank(page)
			if bankNum < 0 {
				if int(length) <= len(pageData) && length != 0xFFFF {
					pageData = pageData[length:]
				}
				continue
			}
			var raw []byte
			var err error
			if length == 0xFFFF {
				raw = pageData[:bankSize]
				pageData = pageData[bankSize:]
			} else {
				if int(length) > len(pageData) {
					return nil, fmt.Errorf("z80file: page block truncated")
				}
				raw, err = unRLE(pageData[:length])
				if err != nil {
					return nil, fmt.Errorf("z80file: %w", err)
				}
				pageData = pageData[length:]
			}
			copy(banks[bankNum], raw)
		}
		snap.Banks = banks
	} else {
		mem, err := decompressV1Body(pageData, true)
		if err != nil {
			return nil, fmt.Errorf("z80file: %w", err)
		}
		snap.Memory48K = mem
	}
	return snap, nil
}

// z80PageToBank maps a .z80 v2/v3 "page number" byte to a RAM bank index,
// or -1 for a page that isn't one of the 8 RAM banks (e.g. ROM pages).
func z80PageToBank(page byte) int {
	if page < 3 || page > 10 {
		return -1
	}
	return int(page) - 3
}

// decompressV1Body handles the v1-style memory dump, which is either a
// flat 48KiB image or RLE-compressed if compressed is true.
func decompressV1Body(body []byte, compressed bool) ([]byte, error) {
	if !compressed {
		if len(body) < 48*1024 {
			return nil, fmt.Errorf("uncompressed v1 body too short: %d bytes", len(body))
		}
		return body[:48*1024], nil
	}
	return unRLE(body)
}

// unRLE decodes the .z80 RLE scheme: 0xED 0xED <count> <byte> repeats
// byte count times; any other byte is literal. A trailing 0x00 0xED
// 0xED 0x00 end marker, if present, is not emitted.
func unRLE(data []byte) ([]byte, error) {
	if n := len(data); n >= 4 && data[n-4] == 0x00 && data[n-3] == 0xED && data[n-2] == 0xED && data[n-1] == 0x00 {
		data = data[:n-4]
	}
	out := make([]byte, 0, len(data)*2)
	for i := 0; i < len(data); {
		if i+4 <= len(data) && data[i] == 0xED && data[i+1] == 0xED {
			count := int(data[i+2])
			b := data[i+3]
			for j := 0; j < count; j++ {
				out = append(out, b)
			}
			i += 4
			continue
		}
		out = append(out, data[i])
		i++
	}
	return out, nil
}
