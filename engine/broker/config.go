package broker

import "valewind/hal"

// Config is the construction configuration of a Broker. Zero fields take
// the DefaultConfig values.
type Config struct {
	Title        string
	CanvasWidth  int
	CanvasHeight int
	// AssetsPath is the root relative font paths are resolved against.
	AssetsPath string
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{Title: "window", CanvasWidth: 800, CanvasHeight: 600}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.CanvasWidth == 0 {
		c.CanvasWidth = d.CanvasWidth
	}
	if c.CanvasHeight == 0 {
		c.CanvasHeight = d.CanvasHeight
	}
	return c
}

// Builder assembles a Config step by step.
type Builder struct {
	cfg Config
}

func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

func (b *Builder) Title(title string) *Builder {
	b.cfg.Title = title
	return b
}

func (b *Builder) CanvasSize(width, height int) *Builder {
	b.cfg.CanvasWidth = width
	b.cfg.CanvasHeight = height
	return b
}

func (b *Builder) AssetsPath(path string) *Builder {
	b.cfg.AssetsPath = path
	return b
}

// Config returns the configuration built so far.
func (b *Builder) Config() Config { return b.cfg }

// Build acquires every subsystem from h. See New.
func (b *Builder) Build(h hal.HAL) (*Broker, error) {
	return New(h, b.cfg)
}
