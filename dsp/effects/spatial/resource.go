package spatial

import (
	"fmt"
	"sync"

	"github.com/cwbudde/radarping/dsp/core"
	"github.com/cwbudde/radarping/dsp/effects/spatial/hrtf"
	"github.com/sirupsen/logrus"
)

// refHandle counts references to a resource. The owner holds the first
// reference; dependants retain one each. free runs once the count drops
// to zero.
type refHandle struct {
	mu        sync.Mutex
	refs      int
	ownerDone bool
	free      func()
}

func (h *refHandle) init(free func()) {
	h.refs = 1
	h.free = free
}

func (h *refHandle) retain() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ownerDone || h.refs == 0 {
		return ErrReleased
	}
	h.refs++
	return nil
}

func (h *refHandle) unref() {
	h.mu.Lock()
	if h.refs == 0 {
		h.mu.Unlock()
		return
	}
	h.refs--
	zero := h.refs == 0
	h.mu.Unlock()

	if zero && h.free != nil {
		h.free()
	}
}

// releaseOwner drops the owner's reference once. It reports whether this
// call did the release.
func (h *refHandle) releaseOwner() bool {
	h.mu.Lock()
	if h.ownerDone {
		h.mu.Unlock()
		return false
	}
	h.ownerDone = true
	h.mu.Unlock()

	h.unref()
	return true
}

// Released reports whether every reference has been dropped.
func (h *refHandle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refs == 0
}

func (h *refHandle) usable() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.ownerDone && h.refs > 0
}

// AudioSettings describes the stream format shared by all resources.
type AudioSettings struct {
	SampleRate int
	FrameSize  int
}

func (a AudioSettings) validate() error {
	return core.ProcessorConfig{SampleRate: a.SampleRate, FrameSize: a.FrameSize}.Validate()
}

// ContextSettings configures a Context.
type ContextSettings struct {
	Logger logrus.FieldLogger
}

// Context is the root resource. HRTFs retain it until they are released.
type Context struct {
	refHandle
	logger logrus.FieldLogger
}

// NewContext creates a Context. A nil logger falls back to the logrus
// standard logger.
func NewContext(settings ContextSettings) (*Context, error) {
	logger := settings.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	c := &Context{logger: logger}
	c.init(func() {
		logger.WithField("function", "Context.Release").Debug("context freed")
	})
	return c, nil
}

// Release drops the owner's reference. Calling it again is a no-op.
func (c *Context) Release() {
	if c == nil {
		return
	}
	c.releaseOwner()
}

// Logger returns the context's logger.
func (c *Context) Logger() logrus.FieldLogger {
	return c.logger
}

// HRTFSettings configures an HRTF.
type HRTFSettings struct {
	// Provider synthesizes or loads the measurement set. Nil selects the
	// default spherical-head model.
	Provider hrtf.Provider
	// Volume scales every impulse response. Zero means 1.
	Volume float64
}

// HRTF holds a direction-indexed impulse-response profile built for one
// sample rate.
type HRTF struct {
	refHandle
	ctx     *Context
	name    string
	profile *hrtf.Profile
}

// NewHRTF builds the profile for audio.SampleRate and retains ctx.
func NewHRTF(ctx *Context, audio AudioSettings, settings HRTFSettings) (*HRTF, error) {
	if ctx == nil {
		return nil, fmt.Errorf("spatial: hrtf needs a context")
	}
	if err := audio.validate(); err != nil {
		return nil, err
	}

	provider := settings.Provider
	if provider == nil {
		sh, err := hrtf.NewSphericalHead()
		if err != nil {
			return nil, err
		}
		provider = sh
	}
	volume := settings.Volume
	if volume == 0 {
		volume = 1
	}

	ds, err := provider.Dataset(audio.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("spatial: hrtf provider %q: %w", provider.Name(), err)
	}
	profile, err := hrtf.NewProfile(ds, volume)
	if err != nil {
		return nil, err
	}

	if err := ctx.retain(); err != nil {
		return nil, err
	}

	h := &HRTF{ctx: ctx, name: provider.Name(), profile: profile}
	h.init(ctx.unref)

	ctx.logger.WithFields(logrus.Fields{
		"function":    "NewHRTF",
		"provider":    h.name,
		"sample_rate": audio.SampleRate,
		"ir_len":      profile.IRLen(),
	}).Debug("hrtf loaded")

	return h, nil
}

// Release drops the owner's reference. Calling it again is a no-op.
func (h *HRTF) Release() {
	if h == nil {
		return
	}
	h.releaseOwner()
}

// Name returns the provider name the profile was built from.
func (h *HRTF) Name() string {
	return h.name
}

// Profile returns the underlying profile.
func (h *HRTF) Profile() *hrtf.Profile {
	return h.profile
}
