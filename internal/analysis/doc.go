// Package analysis characterises recorded runs in the frequency domain.
//
// The centre of mass of a balancing model sways; its spectrum shows how
// fast:
//
//	s := analysis.COMSpectrum(rows, "tred", analysis.AxisX, dt)
//	freq, _ := s.Dominant()
package analysis
