// psg.go - AY-3-8910 Programmable Sound Generator.
//
// Register semantics, the envelope shape table and the volume lookup are
// grounded directly on the original Rust implementation's psg.rs rather
// than on any Go example in the pack: the pack's own PSG code targets
// Atari ST .psg music-file playback (ay_parser.go/psg_engine.go), not
// register-level AY-3-8910 synthesis.

package spectrum

// regMask drops any bits a write sets beyond a register's real width,
// the same behaviour hardware uses to tell an AY from a YM.
var regMask = [16]byte{
	0xff, 0x0f, 0xff, 0x0f, 0xff, 0x0f, 0x1f, 0xff,
	0x1f, 0x1f, 0x1f, 0xff, 0xff, 0x0f, 0xff, 0xff,
}

// volumeLevels is the non-linear 16-step PCM lookup for one channel.
var volumeLevels = [16]int32{
	0, 94, 133, 197, 283, 413, 589, 920,
	1096, 1759, 2482, 3142, 4164, 5340, 6669, 8192,
}

type envBlock int

const (
	envHigh envBlock = iota
	envLow
	envRaise
	envLower
)

// envShapeTable maps a 4-bit shape value to the attack block and the
// block the envelope settles into (or loops through) afterwards.
var envShapeTable = [16]struct{ attack, body envBlock }{
	0: {envLower, envLow}, 1: {envLower, envLow}, 2: {envLower, envLow}, 3: {envLower, envLow},
	4: {envRaise, envLow}, 5: {envRaise, envLow}, 6: {envRaise, envLow}, 7: {envRaise, envLow},
	8:  {envLower, envLower}, // loop
	9:  {envLower, envLow},
	10: {envLower, envRaise}, // alternate: handled specially below
	11: {envLower, envHigh},
	12: {envRaise, envRaise}, // loop
	13: {envRaise, envHigh},
	14: {envRaise, envLower}, // alternate: handled specially below
	15: {envRaise, envLow},
}

type toneGen struct {
	divisor RegisterPair // 12-bit period split across two register writes
	phase   uint32
	output  bool
}

// period returns the generator's phase period in T-states. The AY-3-8910
// clocks its tone/noise/envelope generators at 1/16th the chip clock and
// each generator further halves that internally, so one register count is
// 32 T-states wide (raze's psg.rs: set_freq, divisor = 32 * freq).
func (t *toneGen) period() uint32 {
	freq := t.divisor.Word()
	if freq == 0 {
		freq = 1
	}
	return uint32(freq) * 32
}

func (t *toneGen) advance(ticks uint32) {
	p := t.period()
	for i := uint32(0); i < ticks; i++ {
		t.phase++
		if t.phase >= p {
			t.phase = 0
			t.output = !t.output
		}
	}
}

type noiseGen struct {
	divisor uint8 // 5-bit period register
	phase   uint32
	lfsr    uint32 // 17-bit LFSR, shift bit 0
	output  bool
}

func newNoiseGen() *noiseGen {
	return &noiseGen{lfsr: 1}
}

func (n *noiseGen) period() uint32 {
	freq := n.divisor
	if freq == 0 {
		freq = 1
	}
	return uint32(freq) * 32
}

func (n *noiseGen) advance(ticks uint32) {
	p := n.period()
	for i := uint32(0); i < ticks; i++ {
		n.phase++
		if n.phase >= p {
			n.phase = 0
			bit := (n.lfsr & 1) ^ ((n.lfsr >> 3) & 1)
			n.lfsr = (n.lfsr >> 1) | (bit << 16)
			n.output = n.lfsr&1 != 0
		}
	}
}

type envelopeGen struct {
	divisor RegisterPair // full 16-bit period split across two register writes
	phase   uint32
	step    int // always counts 0..15 upward; block decides read direction
	shape   byte
	block   envBlock
	holding bool
}

func (e *envelopeGen) period() uint32 {
	freq := e.divisor.Word()
	if freq == 0 {
		freq = 1
	}
	return uint32(freq) * 32
}

func (e *envelopeGen) setShape(shape byte) {
	e.shape = shape & 0x0F
	e.phase = 0
	e.step = 0
	e.holding = false
	entry := envShapeTable[e.shape]
	e.block = entry.attack
}

// advance counts step from 0 to 15 for every shape, raising or lowering
// attack alike; envLower reads the ramp back to front in level. psg.rs
// (Envelope::next_sample) does the same rather than counting step down,
// since decrementing from 0 underflows before the down-ramp ever plays.
func (e *envelopeGen) advance(ticks uint32) {
	if e.holding {
		return
	}
	p := e.period()
	for i := uint32(0); i < ticks; i++ {
		e.phase++
		if e.phase < p {
			continue
		}
		e.phase = 0
		e.step++
		if e.step > 15 {
			e.onAttackDone()
		}
	}
}

// onAttackDone runs the block-transition rule for each shape once the
// attack ramp reaches its end, per the shape table in the design notes.
func (e *envelopeGen) onAttackDone() {
	switch e.shape {
	case 0, 1, 2, 3, 9, 4, 5, 6, 7, 15:
		e.block = envLow
		e.holding = true
	case 8:
		e.block = envLower
	case 10:
		if e.block == envLower {
			e.block = envRaise
		} else {
			e.block = envLower
		}
	case 11:
		e.block = envHigh
		e.holding = true
	case 12:
		e.block = envRaise
	case 13:
		e.block = envHigh
		e.holding = true
	case 14:
		if e.block == envRaise {
			e.block = envLower
		} else {
			e.block = envRaise
		}
	}
	e.step = 0
}

func (e *envelopeGen) level() int32 {
	switch e.block {
	case envHigh:
		return volumeLevels[15]
	case envLow:
		return volumeLevels[0]
	case envRaise:
		return volumeLevels[e.step]
	default: // envLower
		return volumeLevels[15-e.step]
	}
}

// PSG models a three-channel AY-3-8910.
type PSG struct {
	regs    [16]byte
	selReg  int
	tone    [3]toneGen
	noise   noiseGen
	env     envelopeGen
}

func NewPSG() *PSG {
	return &PSG{noise: *newNoiseGen()}
}

// SelectRegister handles a write to the register-select port.
func (p *PSG) SelectRegister(value byte) {
	p.selReg = int(value & 0x0F)
}

// SelectedRegister handles a read of the register-select port.
func (p *PSG) SelectedRegister() byte {
	return byte(p.selReg)
}

// WriteData handles a write to the data port for the currently selected
// register.
func (p *PSG) WriteData(value byte) {
	v := value & regMask[p.selReg]
	p.regs[p.selReg] = v
	switch p.selReg {
	case 0:
		p.tone[0].divisor.SetLo(v)
	case 1:
		p.tone[0].divisor.SetHi(v & 0x0F)
	case 2:
		p.tone[1].divisor.SetLo(v)
	case 3:
		p.tone[1].divisor.SetHi(v & 0x0F)
	case 4:
		p.tone[2].divisor.SetLo(v)
	case 5:
		p.tone[2].divisor.SetHi(v & 0x0F)
	case 6:
		p.noise.divisor = v & 0x1F
	case 11:
		p.env.divisor.SetLo(v)
	case 12:
		p.env.divisor.SetHi(v)
	case 13:
		p.env.setShape(v)
	}
}

// ReadData handles a read of the data port.
func (p *PSG) ReadData() byte {
	return p.regs[p.selReg]
}

// Advance steps every generator by t T-states.
func (p *PSG) Advance(t uint32) {
	for i := range p.tone {
		p.tone[i].advance(t)
	}
	p.noise.advance(t)
	p.env.advance(t)
}

// Mix returns the summed PCM level across all three channels (0..24576).
func (p *PSG) Mix() int32 {
	mixer := p.regs[7]
	var total int32
	for ch := 0; ch < 3; ch++ {
		toneDisabled := mixer&(1<<ch) != 0
		noiseDisabled := mixer&(1<<(ch+3)) != 0

		toneOut := true
		if !toneDisabled {
			toneOut = p.tone[ch].output
		}
		noiseOut := true
		if !noiseDisabled {
			noiseOut = p.noise.output
		}
		active := toneOut && noiseOut

		vol := p.regs[8+ch]
		var level int32
		if vol&0x10 != 0 {
			level = p.env.level()
		} else {
			level = volumeLevels[vol&0x0F]
		}
		if active {
			total += level
		}
	}
	return total
}
