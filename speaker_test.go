package spectrum

import "testing"

func TestSpeakerSampleRange(t *testing.T) {
	sp := NewSpeaker(100)
	sp.PushSample(0, 100)
	sp.PushSample(65536, 100)

	samples := sp.Drain()
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
	for _, v := range samples {
		if v < -0.1 || v > 0.9+1e-6 {
			t.Fatalf("sample %v outside [-0.1, 0.9]", v)
		}
	}
	if samples[0] != -0.1 {
		t.Fatalf("silence sample = %v, want -0.1", samples[0])
	}
	if samples[1] <= 0.89 {
		t.Fatalf("full-level sample = %v, want ~0.9", samples[1])
	}
}

func TestSpeakerDrainClears(t *testing.T) {
	sp := NewSpeaker(10)
	sp.PushSample(1000, 10)
	if len(sp.Drain()) == 0 {
		t.Fatalf("expected at least one sample")
	}
	if got := sp.Drain(); len(got) != 0 {
		t.Fatalf("second drain should be empty, got %d", len(got))
	}
}

func TestSpeakerAccumulatesAcrossPushes(t *testing.T) {
	sp := NewSpeaker(100)
	sp.PushSample(1000, 40)
	sp.PushSample(1000, 60) // crosses the 100-T boundary here
	if len(sp.Drain()) != 1 {
		t.Fatalf("expected exactly one sample once 100 T-states accumulate")
	}
}
