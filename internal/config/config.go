// Package config resolves the prank's timings and assets from defaults, an
// optional YAML file and CLI overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/sec-analyzer/internal/audio"
	"github.com/ensigniasec/sec-analyzer/internal/feed"
	"github.com/ensigniasec/sec-analyzer/internal/scenario"
	"github.com/ensigniasec/sec-analyzer/internal/validate"
)

const (
	maxConfigSize = 1024 * 1024 // 1MB is plenty for a script

	// DefaultImageURL is the reveal image.
	DefaultImageURL = "https://infokalteng.co/foto_berita/135642-dbb76965-0732-4b1b-bbe2-cbea751844c6.jpeg"
)

// StepSpec is the YAML form of a scripted log line.
type StepSpec struct {
	Message  string        `yaml:"message" json:"message" validate:"required"`
	Severity string        `yaml:"severity,omitempty" json:"severity,omitempty" validate:"omitempty,severity"`
	Delay    time.Duration `yaml:"delay" json:"delay" validate:"gt=0"`
}

// Config is the complete runtime configuration.
type Config struct {
	Steps           []StepSpec    `yaml:"steps,omitempty" validate:"omitempty,dive"`
	EscalationDelay time.Duration `yaml:"escalation_delay" validate:"gte=0"`
	Countdown       int           `yaml:"countdown" validate:"gte=1,lte=9"`
	TickInterval    time.Duration `yaml:"tick_interval" validate:"gt=0"`
	FeedCapacity    int           `yaml:"feed_capacity" validate:"gte=1,lte=1000"`
	TimeScale       float64       `yaml:"time_scale" validate:"gt=0"`

	ImageURL string `yaml:"image_url" validate:"omitempty,url"`
	SoundURL string `yaml:"sound_url"`
	Player   string `yaml:"player"`
	Mute     bool   `yaml:"mute"`
}

// Default returns the stock configuration.
func Default() Config {
	d := scenario.DefaultSettings()
	steps := make([]StepSpec, 0, len(d.Script))
	for _, st := range d.Script {
		steps = append(steps, StepSpec{Message: st.Message, Severity: string(st.Severity), Delay: st.Delay})
	}
	return Config{
		Steps:           steps,
		EscalationDelay: d.EscalationDelay,
		Countdown:       d.CountdownStart,
		TickInterval:    d.TickInterval,
		FeedCapacity:    d.FeedCapacity,
		TimeScale:       1,
		ImageURL:        DefaultImageURL,
		SoundURL:        audio.DefaultSoundURL,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Keys missing from the file keep their default values; a file that lists
// steps replaces the whole script.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	expanded, err := expandTilde(path)
	if err != nil {
		return Config{}, err
	}
	logrus.Debug("Loading config file from: ", expanded)
	data, err := readFile(expanded)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	// yaml.v3 leaves absent keys untouched and replaces slices wholesale.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and script ordering.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.script(); err != nil {
		return err
	}
	return nil
}

func (c Config) script() (scenario.Script, error) {
	out := make(scenario.Script, 0, len(c.Steps))
	for _, st := range c.Steps {
		sev, err := feed.ParseSeverity(st.Severity)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", scenario.ErrInvalidScript, err)
		}
		out = append(out, scenario.Step{Message: st.Message, Severity: sev, Delay: st.Delay})
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Settings converts the configuration into controller settings with the time
// scale applied.
func (c Config) Settings() (scenario.Settings, error) {
	script, err := c.script()
	if err != nil {
		return scenario.Settings{}, err
	}
	s := scenario.Settings{
		Script:          script,
		EscalationDelay: c.EscalationDelay,
		CountdownStart:  c.Countdown,
		TickInterval:    c.TickInterval,
		FeedCapacity:    c.FeedCapacity,
	}
	return s.Scaled(c.TimeScale), nil
}

// Beeper picks the countdown alert: silent when muted, the external player
// when one is configured, the terminal bell otherwise.
func (c Config) Beeper(bell io.Writer) scenario.Beeper {
	if c.Mute {
		return audio.Silent{}
	}
	if p := audio.NewPlayer(c.Player, c.SoundURL); p != nil {
		return p
	}
	return audio.NewBell(bell)
}

// readFile reads a file with a size cap.
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	}
	return io.ReadAll(io.LimitReader(f, maxConfigSize))
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Join(errors.New("expand ~ in config path"), err)
	}
	return filepath.Join(home, path[1:]), nil
}
