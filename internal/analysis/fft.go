package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/window"
)

// padFactor oversamples the spectrum of short traces.
const padFactor = 8

func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// NextPow2 returns the smallest power of two >= n.
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Pad zero-extends data to length n.
func Pad(data []float64, n int) []float64 {
	out := make([]float64, max(n, len(data)))
	copy(out, data)
	return out
}

// DominantFrequency returns the strongest non-DC frequency of samples in
// cycles per unit of sampleRate. The mean is removed and a Hann window
// applied before the transform; the peak is refined by parabolic
// interpolation. Fewer than four samples yield 0.
func DominantFrequency(samples []float64, sampleRate float64) float64 {
	if len(samples) < 4 || sampleRate <= 0 {
		return 0
	}

	mean := Summarize(samples).Mean
	x := make([]float64, len(samples))
	for i, v := range samples {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	n := NextPow2(len(x)) * padFactor
	ps := PowerSpectrum(Pad(x, n))

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0
	}

	offset := 0.0
	if peak+1 < len(ps) {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if d := a - 2*b + c; d != 0 {
			offset = 0.5 * (a - c) / d
		}
	}
	return (float64(peak) + offset) * sampleRate / float64(n)
}
