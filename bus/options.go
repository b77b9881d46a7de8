package bus

import (
	"fmt"
	"log"

	"nes-core/ppu"
)

type Option func(*Bus) error

func (b *Bus) setOptions(options ...Option) error {
	for i, option := range options {
		if err := option(b); err != nil {
			return fmt.Errorf("failed to set option index %d: %w", i, err)
		}
	}
	return nil
}

func WithLogger(logger *log.Logger) Option {
	return func(b *Bus) error {
		if logger == nil {
			return fmt.Errorf("nil logger")
		}
		b.logger = logger
		return nil
	}
}

// Verbose logs cartridge insertion and resets as well as CPU halts.
func Verbose(verbose bool) Option {
	return func(b *Bus) error {
		b.verbose = verbose
		return nil
	}
}

// WithController plugs c into port 0 ($4016) or 1 ($4017).
func WithController(port int, c Controller) Option {
	return func(b *Bus) error {
		if port < 0 || port >= len(b.controllers) {
			return fmt.Errorf("%w: %d", ErrBadPort, port)
		}
		b.controllers[port] = c
		return nil
	}
}

// WithPPUOptions is passed on to ppu.NewPPU.
func WithPPUOptions(options ...ppu.Option) Option {
	return func(b *Bus) error {
		b.ppuOptions = append(b.ppuOptions, options...)
		return nil
	}
}
