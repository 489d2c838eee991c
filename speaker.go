// speaker.go - T-state-weighted box-average resampler, grounded on
// original_source/src/speaker.rs.

package spectrum

// Speaker accumulates a level*time weighted sum and emits one PCM sample
// each time the accumulated T-state span crosses a full sample period.
type Speaker struct {
	tPerSample uint32 // T-states per output sample at the host sample rate
	accum      int64  // level * elapsed-T accumulator, carried across PushSample calls, reset per emitted sample
	accumT     uint32 // T-states accumulated since the last emitted sample
	samples    []float32
}

func NewSpeaker(tPerSample uint32) *Speaker {
	if tPerSample == 0 {
		tPerSample = 1
	}
	return &Speaker{tPerSample: tPerSample}
}

// PushSample folds `level` (the instantaneous EAR/MIC/PSG-mixed level, in
// 0..65536 units) into the accumulator for `t` T-states, emitting any
// samples whose period has now elapsed.
func (s *Speaker) PushSample(level int64, t uint32) {
	for t > 0 {
		remaining := s.tPerSample - s.accumT
		step := t
		if step > remaining {
			step = remaining
		}
		s.accum += level * int64(step)
		s.accumT += step
		t -= step

		if s.accumT >= s.tPerSample {
			v := float32(s.accum)/(65536*float32(s.tPerSample)) - 0.1
			s.samples = append(s.samples, v)
			s.accum = 0
			s.accumT = 0
		}
	}
}

// Drain returns and clears the buffered samples produced since the last
// call; the host sink consumes these between frames.
func (s *Speaker) Drain() []float32 {
	out := s.samples
	s.samples = nil
	return out
}
