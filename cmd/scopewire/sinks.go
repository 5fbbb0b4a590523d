package main

import (
	"fmt"

	"github.com/gopxl/beep/v2"

	"github.com/Faultbox/scopewire/internal/config"
	"github.com/Faultbox/scopewire/internal/sink"
	"github.com/Faultbox/scopewire/internal/sink/audio"
	"github.com/Faultbox/scopewire/internal/sink/screen"
)

// openSink creates the output device selected in cfg.
func openSink(cfg *config.Config) (sink.Sink, error) {
	switch cfg.Sink.Kind {
	case config.SinkScreen:
		sc := screen.DefaultConfig()
		sc.Width = cfg.Display.Width
		sc.Height = cfg.Display.Height
		sc.Fullscreen = cfg.Display.Fullscreen
		sc.VSync = cfg.Display.VSync
		if cfg.Display.Decay > 0 {
			sc.Decay = cfg.Display.Decay
		}
		s, err := screen.Open(sc)
		if err != nil {
			return nil, fmt.Errorf("opening screen: %w", err)
		}
		return s, nil

	case config.SinkAudio:
		ac := audio.DefaultConfig()
		if cfg.Audio.SampleRate > 0 {
			ac.SampleRate = beep.SampleRate(cfg.Audio.SampleRate)
		}
		ac.BeamSpeed = cfg.Audio.BeamSpeed
		ac.ScaleX = cfg.Audio.ScaleX
		ac.ScaleY = cfg.Audio.ScaleY
		if cfg.Audio.Buffer > 0 {
			ac.Buffer = cfg.Audio.Buffer
		}
		s, err := audio.Open(ac)
		if err != nil {
			return nil, fmt.Errorf("opening audio: %w", err)
		}
		return s, nil

	case config.SinkRecorder:
		return sink.NewRecorder(), nil

	case config.SinkNull:
		return &sink.Null{}, nil
	}
	return nil, fmt.Errorf("%w: unknown sink kind %q", config.ErrInvalid, cfg.Sink.Kind)
}
