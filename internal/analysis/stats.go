package analysis

import "math"

type Stats struct {
	Min, Max   float64
	Mean       float64
	RMS        float64
	PeakToPeak float64
}

func Summarize(samples []float64) Stats {
	if len(samples) == 0 {
		return Stats{}
	}
	s := Stats{Min: samples[0], Max: samples[0]}
	sum, sq := 0.0, 0.0
	for _, v := range samples {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		sum += v
		sq += v * v
	}
	n := float64(len(samples))
	s.Mean = sum / n
	s.RMS = math.Sqrt(sq / n)
	s.PeakToPeak = s.Max - s.Min
	return s
}

// CrossingPeriod estimates the period in samples from the crossings of
// the mean level, linearly interpolated between samples. It needs at
// least two crossings.
func CrossingPeriod(samples []float64) (float64, bool) {
	if len(samples) < 3 {
		return 0, false
	}
	level := Summarize(samples).Mean

	var crossings []float64
	for i := 1; i < len(samples); i++ {
		a, b := samples[i-1]-level, samples[i]-level
		if a == 0 || (a < 0) == (b < 0) {
			continue
		}
		crossings = append(crossings, float64(i-1)+a/(a-b))
	}
	if len(crossings) < 2 {
		return 0, false
	}
	span := crossings[len(crossings)-1] - crossings[0]
	return 2 * span / float64(len(crossings)-1), true
}
