package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Source   SourceConfig   `toml:"source"`
	Jellyfin JellyfinConfig `toml:"jellyfin"`
	Playback PlaybackConfig `toml:"playback"`
	Overlay  OverlayConfig  `toml:"overlay"`
	UI       UIConfig       `toml:"ui"`
	Keybinds KeybindConfig  `toml:"keybinds"`
	Remote   RemoteConfig   `toml:"remote"`
}

// SourceConfig selects what to open. Dataset is a processed video folder;
// when JellyfinItem is set the video is streamed from the server instead of
// the folder's normalized file.
type SourceConfig struct {
	Dataset      string `toml:"dataset"`
	JellyfinItem string `toml:"jellyfin_item"`
}

type JellyfinConfig struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Token    string `toml:"token"`
	UserID   string `toml:"user_id"`
}

type PlaybackConfig struct {
	HWDec        string  `toml:"hwdec"`
	Volume       int     `toml:"volume"`
	FrameCounter bool    `toml:"frame_counter"`
	Loop         bool    `toml:"loop"`
	Slowdown     int     `toml:"slowdown"`
	PiPScale     float64 `toml:"pip_scale"`
}

type OverlayConfig struct {
	Zoom      float64 `toml:"zoom"`
	Pose      bool    `toml:"pose"`
	Face      bool    `toml:"face"`
	LeftHand  bool    `toml:"left_hand"`
	RightHand bool    `toml:"right_hand"`
}

type UIConfig struct {
	Width       int `toml:"width"`
	Height      int `toml:"height"`
	PreviewSize int `toml:"preview_size"`
}

type KeybindConfig struct {
	PlayPause        string `toml:"play_pause"`
	NextFrame        string `toml:"next_frame"`
	PrevFrame        string `toml:"prev_frame"`
	ToggleLoop       string `toml:"toggle_loop"`
	SpeedNormal      string `toml:"speed_normal"`
	SpeedHalf        string `toml:"speed_half"`
	SpeedQuarter     string `toml:"speed_quarter"`
	PictureInPicture string `toml:"picture_in_picture"`
}

// RemoteConfig enables the websocket bridge. Empty Listen disables it.
type RemoteConfig struct {
	Listen string `toml:"listen"`
}

func DefaultConfig() *Config {
	return &Config{
		Playback: PlaybackConfig{
			HWDec:        "auto-safe",
			Volume:       100,
			FrameCounter: true,
			Slowdown:     1,
			PiPScale:     0.5,
		},
		Overlay: OverlayConfig{
			Zoom:      0.9,
			Pose:      true,
			Face:      true,
			LeftHand:  true,
			RightHand: true,
		},
		UI: UIConfig{
			Width:       1100,
			Height:      560,
			PreviewSize: 720,
		},
		Keybinds: KeybindConfig{
			PlayPause:        "Space",
			NextFrame:        "Right",
			PrevFrame:        "Left",
			ToggleLoop:       "L",
			SpeedNormal:      "Q",
			SpeedHalf:        "W",
			SpeedQuarter:     "E",
			PictureInPicture: "P",
		},
	}
}

// Validate rejects values the viewer cannot run with.
func (c *Config) Validate() error {
	switch c.Playback.Slowdown {
	case 1, 2, 4:
	default:
		return fmt.Errorf("playback.slowdown must be 1, 2 or 4, got %d", c.Playback.Slowdown)
	}
	if c.Overlay.Zoom <= 0 || c.Overlay.Zoom > 1 {
		return fmt.Errorf("overlay.zoom must be in (0, 1], got %v", c.Overlay.Zoom)
	}
	if c.UI.PreviewSize <= 0 {
		return fmt.Errorf("ui.preview_size must be positive, got %d", c.UI.PreviewSize)
	}
	if c.Source.JellyfinItem != "" && c.Jellyfin.URL == "" {
		return fmt.Errorf("source.jellyfin_item needs jellyfin.url")
	}
	return nil
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "signviewer"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config from the XDG config dir, falling back to defaults
// when there is none.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path over the defaults. A missing file yields
// the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
