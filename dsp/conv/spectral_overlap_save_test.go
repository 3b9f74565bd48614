package conv

import (
	"errors"
	"testing"

	"github.com/cwbudde/radarping/internal/testutil"
)

func TestSpectralOverlapSaveTwoKernels(t *testing.T) {
	blockSize := 16
	kernelA := testutil.DeterministicNoise(1, 1, 9)
	kernelB := testutil.DeterministicNoise(2, 1, 12)
	signal := testutil.DeterministicNoise(3, 1, blockSize*4)

	s, err := NewSpectralOverlapSave(12, blockSize)
	if err != nil {
		t.Fatalf("NewSpectralOverlapSave failed: %v", err)
	}
	specA, err := s.KernelSpectrum(kernelA)
	if err != nil {
		t.Fatalf("KernelSpectrum(A) failed: %v", err)
	}
	specB, err := s.KernelSpectrum(kernelB)
	if err != nil {
		t.Fatalf("KernelSpectrum(B) failed: %v", err)
	}

	wantA, _ := Direct(signal, kernelA)
	wantB, _ := Direct(signal, kernelB)

	outA := make([]float64, blockSize)
	outB := make([]float64, blockSize)
	for blk := 0; blk < 4; blk++ {
		in := signal[blk*blockSize : (blk+1)*blockSize]
		if err := s.Push(in); err != nil {
			t.Fatalf("Push failed: %v", err)
		}
		if err := s.ConvolveTo(outA, specA); err != nil {
			t.Fatalf("ConvolveTo(A) failed: %v", err)
		}
		if err := s.ConvolveTo(outB, specB); err != nil {
			t.Fatalf("ConvolveTo(B) failed: %v", err)
		}

		testutil.RequireSliceNearlyEqual(t, outA, wantA[blk*blockSize:(blk+1)*blockSize], 1e-9)
		testutil.RequireSliceNearlyEqual(t, outB, wantB[blk*blockSize:(blk+1)*blockSize], 1e-9)
	}
}

func TestSpectralOverlapSaveErrors(t *testing.T) {
	if _, err := NewSpectralOverlapSave(0, 8); !errors.Is(err, ErrEmptyKernel) {
		t.Fatalf("expected ErrEmptyKernel, got %v", err)
	}
	if _, err := NewSpectralOverlapSave(4, -1); !errors.Is(err, ErrInvalidBlockSize) {
		t.Fatalf("expected ErrInvalidBlockSize, got %v", err)
	}

	s, err := NewSpectralOverlapSave(4, 8)
	if err != nil {
		t.Fatalf("NewSpectralOverlapSave failed: %v", err)
	}
	kernel, _ := s.KernelSpectrum([]float64{1})

	if err := s.ConvolveTo(make([]float64, 8), kernel); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("ConvolveTo before Push: expected ErrEmptyInput, got %v", err)
	}
	if _, err := s.KernelSpectrum(make([]float64, 5)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("long kernel: expected ErrLengthMismatch, got %v", err)
	}
	if err := s.KernelSpectrumTo(make([]complex128, 3), []float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("short spectrum: expected ErrLengthMismatch, got %v", err)
	}
	if err := s.Push(make([]float64, 7)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("short block: expected ErrLengthMismatch, got %v", err)
	}
	if err := s.Push(make([]float64, 8)); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if err := s.ConvolveTo(make([]float64, 8), kernel[:4]); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("truncated spectrum: expected ErrLengthMismatch, got %v", err)
	}
}
