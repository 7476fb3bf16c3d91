package analysis

import (
	"math/cmplx"

	"github.com/san-kum/ragdoll/internal/storage"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

const (
	AxisX = iota
	AxisY
	AxisZ
)

// Spectrum is the one-sided amplitude spectrum of a uniformly sampled
// series. Freqs are in Hz.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum removes the mean of data and transforms it. Fewer than two
// samples give an empty spectrum.
func PowerSpectrum(data []float64, dt float64) Spectrum {
	if len(data) < 2 || dt <= 0 {
		return Spectrum{}
	}
	mean := stat.Mean(data, nil)
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	fft := fourier.NewFFT(len(centred))
	coeff := fft.Coefficients(nil, centred)
	s := Spectrum{
		Freqs: make([]float64, len(coeff)),
		Power: make([]float64, len(coeff)),
	}
	for i, c := range coeff {
		s.Freqs[i] = fft.Freq(i) / dt
		s.Power[i] = cmplx.Abs(c)
	}
	return s
}

// Dominant returns the strongest non-zero frequency.
func (s Spectrum) Dominant() (freq, power float64) {
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > power {
			freq, power = s.Freqs[i], s.Power[i]
		}
	}
	return freq, power
}

// COMSpectrum is the spectrum of one centre-of-mass axis of model.
func COMSpectrum(rows []storage.COMRow, model string, axis int, dt float64) Spectrum {
	var data []float64
	for _, r := range rows {
		if r.Model == model {
			data = append(data, r.COM[axis])
		}
	}
	return PowerSpectrum(data, dt)
}
