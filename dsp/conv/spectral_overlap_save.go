package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// SpectralOverlapSave is a streaming overlap-save convolver whose kernel is
// passed per block in the frequency domain.
//
// Push transforms [history | block] once; ConvolveTo may then be called any
// number of times with different kernel spectra, each yielding blockSize
// output samples for the pushed block. Kernel spectra must come from
// KernelSpectrum or KernelSpectrumTo of a convolver with the same FFT size.
type SpectralOverlapSave struct {
	kernelLen int // Maximum kernel length
	blockSize int // Input/output block size (fixed)
	fftSize   int // Power of 2, >= blockSize + kernelLen - 1

	plan *algofft.Plan[complex128]

	inputSpectrum []complex128
	work          []complex128
	pushed        bool

	// Last kernelLen-1 input samples
	history []float64
}

// NewSpectralOverlapSave creates a convolver for kernels of up to kernelLen
// taps and fixed blocks of blockSize samples.
func NewSpectralOverlapSave(kernelLen, blockSize int) (*SpectralOverlapSave, error) {
	if kernelLen <= 0 {
		return nil, ErrEmptyKernel
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	fftSize := nextPowerOf2(blockSize + kernelLen - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	return &SpectralOverlapSave{
		kernelLen:     kernelLen,
		blockSize:     blockSize,
		fftSize:       fftSize,
		plan:          plan,
		inputSpectrum: make([]complex128, fftSize),
		work:          make([]complex128, fftSize),
		history:       make([]float64, kernelLen-1),
	}, nil
}

// KernelSpectrum returns the zero-padded FFT of kernel.
func (s *SpectralOverlapSave) KernelSpectrum(kernel []float64) ([]complex128, error) {
	dst := make([]complex128, s.fftSize)
	if err := s.KernelSpectrumTo(dst, kernel); err != nil {
		return nil, err
	}
	return dst, nil
}

// KernelSpectrumTo writes the zero-padded FFT of kernel into dst, which must
// hold FFTSize values. kernel may be shorter than KernelLen.
func (s *SpectralOverlapSave) KernelSpectrumTo(dst []complex128, kernel []float64) error {
	if len(kernel) == 0 {
		return ErrEmptyKernel
	}
	if len(kernel) > s.kernelLen {
		return fmt.Errorf("%w: kernel has %d taps, max %d", ErrLengthMismatch, len(kernel), s.kernelLen)
	}
	if len(dst) != s.fftSize {
		return fmt.Errorf("%w: spectrum needs %d bins, got %d", ErrLengthMismatch, s.fftSize, len(dst))
	}

	for i := range s.work {
		s.work[i] = 0
	}
	for i, v := range kernel {
		s.work[i] = complex(v, 0)
	}

	if err := s.plan.Forward(dst, s.work); err != nil {
		return fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}
	return nil
}

// Push appends a block of blockSize samples and transforms it together with
// the input history.
func (s *SpectralOverlapSave) Push(input []float64) error {
	if len(input) != s.blockSize {
		return fmt.Errorf("%w: expected %d samples, got %d", ErrLengthMismatch, s.blockSize, len(input))
	}

	hist := s.kernelLen - 1
	for i := range s.work {
		s.work[i] = 0
	}
	for i := 0; i < hist; i++ {
		s.work[i] = complex(s.history[i], 0)
	}
	for i := 0; i < s.blockSize; i++ {
		s.work[hist+i] = complex(input[i], 0)
	}

	if err := s.plan.Forward(s.inputSpectrum, s.work); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	// History is the tail of [old history | input].
	if s.blockSize >= hist {
		copy(s.history, input[s.blockSize-hist:])
	} else {
		copy(s.history, s.history[s.blockSize:])
		copy(s.history[hist-s.blockSize:], input)
	}

	s.pushed = true
	return nil
}

// ConvolveTo writes the convolution of the last pushed block with the
// kernel given by spectrum into output (blockSize samples).
func (s *SpectralOverlapSave) ConvolveTo(output []float64, spectrum []complex128) error {
	if !s.pushed {
		return fmt.Errorf("%w: no block pushed", ErrEmptyInput)
	}
	if len(output) != s.blockSize {
		return fmt.Errorf("%w: expected %d output samples, got %d", ErrLengthMismatch, s.blockSize, len(output))
	}
	if len(spectrum) != s.fftSize {
		return fmt.Errorf("%w: spectrum needs %d bins, got %d", ErrLengthMismatch, s.fftSize, len(spectrum))
	}

	for i := range s.work {
		s.work[i] = s.inputSpectrum[i] * spectrum[i]
	}

	if err := s.plan.Inverse(s.work, s.work); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	// The first kernelLen-1 samples hold circular wrap-around.
	validStart := s.kernelLen - 1
	for i := 0; i < s.blockSize; i++ {
		output[i] = real(s.work[validStart+i])
	}
	return nil
}

// Reset clears the input history.
func (s *SpectralOverlapSave) Reset() {
	for i := range s.history {
		s.history[i] = 0
	}
	s.pushed = false
}

// BlockSize returns the block size.
func (s *SpectralOverlapSave) BlockSize() int {
	return s.blockSize
}

// KernelLen returns the maximum kernel length.
func (s *SpectralOverlapSave) KernelLen() int {
	return s.kernelLen
}

// FFTSize returns the FFT size.
func (s *SpectralOverlapSave) FFTSize() int {
	return s.fftSize
}
