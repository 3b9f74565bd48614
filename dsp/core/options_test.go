package core

import "testing"

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(48000), WithFrameSize(512))
	if cfg.SampleRate != 48000 {
		t.Fatalf("sample rate = %v, want 48000", cfg.SampleRate)
	}
	if cfg.FrameSize != 512 {
		t.Fatalf("frame size = %d, want 512", cfg.FrameSize)
	}
}

func TestInvalidOptionsIgnored(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(0), WithFrameSize(-1))
	def := DefaultProcessorConfig()
	if cfg != def {
		t.Fatalf("cfg = %#v, want %#v", cfg, def)
	}
}

func TestProcessorConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProcessorConfig
		wantErr bool
	}{
		{name: "default", cfg: DefaultProcessorConfig()},
		{name: "low rate", cfg: ProcessorConfig{SampleRate: 4000, FrameSize: 256}, wantErr: true},
		{name: "high rate", cfg: ProcessorConfig{SampleRate: 384000, FrameSize: 256}, wantErr: true},
		{name: "tiny frame", cfg: ProcessorConfig{SampleRate: 44100, FrameSize: 8}, wantErr: true},
		{name: "huge frame", cfg: ProcessorConfig{SampleRate: 44100, FrameSize: 16384}, wantErr: true},
		{name: "edges", cfg: ProcessorConfig{SampleRate: MinSampleRate, FrameSize: MaxFrameSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
