package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogFile        string          `yaml:"log_file" toml:"log_file"`
	Log            LogConfig       `yaml:"log" toml:"log"`
	RequestTimeout Duration        `yaml:"request_timeout" toml:"request_timeout"`
	GitHub         GitHubConfig    `yaml:"github" toml:"github"`
	Calendar       CalendarConfig  `yaml:"calendar" toml:"calendar"`
	Input          InputConfig     `yaml:"input" toml:"input"`
	Refresh        RefreshConfig   `yaml:"refresh" toml:"refresh"`
	Pages          PagesConfig     `yaml:"pages" toml:"pages"`
	Commands       CommandsConfig  `yaml:"commands" toml:"commands"`
	Shortcuts      []ShortcutGroup `yaml:"shortcuts" toml:"shortcuts"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

type GitHubConfig struct {
	Enabled               bool     `yaml:"enabled" toml:"enabled"`
	User                  string   `yaml:"user" toml:"user"`
	TokenEnv              string   `yaml:"token_env" toml:"token_env"`
	APIURL                string   `yaml:"api_url" toml:"api_url"`
	NotificationsInterval Duration `yaml:"notifications_interval" toml:"notifications_interval"`
	PullsInterval         Duration `yaml:"pulls_interval" toml:"pulls_interval"`

	// Token is resolved from the environment, never from the file.
	Token string `yaml:"-" toml:"-"`
}

type CalendarConfig struct {
	Enabled         bool     `yaml:"enabled" toml:"enabled"`
	CalendarID      string   `yaml:"calendar_id" toml:"calendar_id"`
	CredentialsFile string   `yaml:"credentials_file" toml:"credentials_file"`
	Interval        Duration `yaml:"interval" toml:"interval"`
	Lookbehind      Duration `yaml:"lookbehind" toml:"lookbehind"`
	Lookahead       Duration `yaml:"lookahead" toml:"lookahead"`
}

type InputConfig struct {
	Enabled      bool              `yaml:"enabled" toml:"enabled"`
	Device       string            `yaml:"device" toml:"device"`
	PollInterval Duration          `yaml:"poll_interval" toml:"poll_interval"`
	Grab         bool              `yaml:"grab" toml:"grab"`
	KeyMap       map[string]string `yaml:"keymap" toml:"keymap"`
}

type RefreshConfig struct {
	Interval    Duration `yaml:"interval" toml:"interval"`
	ClockFormat string   `yaml:"clock_format" toml:"clock_format"`
}

type PagesConfig struct {
	PreserveSubstate bool `yaml:"preserve_substate" toml:"preserve_substate"`
}

type CommandsConfig struct {
	RunPrefix []string `yaml:"run_prefix" toml:"run_prefix"`
	OpenURL   []string `yaml:"open_url" toml:"open_url"`
}

type ShortcutGroup struct {
	Name  string     `yaml:"name" toml:"name"`
	Items []Shortcut `yaml:"items" toml:"items"`
}

type Shortcut struct {
	Label string   `yaml:"label" toml:"label"`
	Argv  []string `yaml:"argv" toml:"argv"`
}

// MaxShortcutGroups and MaxShortcutItems follow the three page-select keys
// available for group and slot selection.
const (
	MaxShortcutGroups = 3
	MaxShortcutItems  = 3
)

// DefaultKeyMap is the code table of the reference control panel.
func DefaultKeyMap() map[string]string {
	return map[string]string{
		"183": "key1",
		"184": "key2",
		"185": "key3",
		"186": "key4",
		"187": "abort",
		"188": "execute",
		"70":  "danger",
		"194": "slider0",
		"193": "slider1",
		"192": "slider2",
		"191": "slider3",
		"190": "slider4",
		"189": "slider5",
	}
}

// Default returns the configuration used for any key the file leaves out.
func Default() *Config {
	home, _ := os.UserHomeDir()
	stateDir := filepath.Join(home, ".local", "state", "statusdeck")

	return &Config{
		LogFile:        filepath.Join(stateDir, "statusdeck.log"),
		Log:            LogConfig{Level: "info"},
		RequestTimeout: Duration{20 * time.Second},
		GitHub: GitHubConfig{
			Enabled:               true,
			TokenEnv:              "PAT",
			NotificationsInterval: Duration{120 * time.Second},
			PullsInterval:         Duration{180 * time.Second},
		},
		Calendar: CalendarConfig{
			Enabled:    true,
			CalendarID: "primary",
			Interval:   Duration{60 * time.Second},
			Lookbehind: Duration{2 * time.Hour},
			Lookahead:  Duration{24 * time.Hour},
		},
		Input: InputConfig{
			Enabled:      true,
			PollInterval: Duration{10 * time.Millisecond},
			KeyMap:       DefaultKeyMap(),
		},
		Refresh: RefreshConfig{
			Interval:    Duration{250 * time.Millisecond},
			ClockFormat: "Jan _2  3:04PM",
		},
		Commands: CommandsConfig{
			OpenURL: []string{"xdg-open"},
		},
		Shortcuts: []ShortcutGroup{
			{Name: "apps", Items: []Shortcut{
				{Label: "guvcview", Argv: []string{"guvcview"}},
				{Label: "zoom", Argv: []string{"zoom"}},
				{Label: "slack", Argv: []string{"slack"}},
			}},
			{Name: "system", Items: []Shortcut{
				{Label: "screenshot", Argv: []string{"gnome-screenshot", "-i"}},
				{Label: "lock", Argv: []string{"loginctl", "lock-session"}},
				{Label: "shutdown", Argv: []string{"systemctl", "poweroff"}},
			}},
		},
	}
}

// Load reads the file at path. Files ending in .toml are decoded as TOML,
// everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := parse(path, data)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func parse(path string, data []byte) (*Config, error) {
	cfg := Default()

	// An explicit keymap replaces the default table instead of merging into it.
	cfg.Input.KeyMap = nil

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if len(cfg.Input.KeyMap) == 0 {
		cfg.Input.KeyMap = DefaultKeyMap()
	}
	if cfg.GitHub.TokenEnv == "" {
		cfg.GitHub.TokenEnv = "PAT"
	}
	if len(cfg.Commands.OpenURL) == 0 {
		cfg.Commands.OpenURL = []string{"xdg-open"}
	}
	if cfg.Refresh.ClockFormat == "" {
		cfg.Refresh.ClockFormat = "Jan _2  3:04PM"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.GitHub.Token = os.Getenv(c.GitHub.TokenEnv)
	if c.GitHub.Token == "" {
		c.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if v := os.Getenv("STATUSDECK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("STATUSDECK_INPUT_DEVICE"); v != "" {
		c.Input.Device = v
	}
}

func (c *Config) validate() error {
	if c.GitHub.Enabled {
		if c.GitHub.User == "" {
			return fmt.Errorf("github.user required")
		}
		if c.GitHub.Token == "" {
			return fmt.Errorf("github token required: set $%s or $GITHUB_TOKEN", c.GitHub.TokenEnv)
		}
		if c.GitHub.NotificationsInterval.Duration <= 0 {
			return fmt.Errorf("github.notifications_interval must be positive")
		}
		if c.GitHub.PullsInterval.Duration <= 0 {
			return fmt.Errorf("github.pulls_interval must be positive")
		}
	}

	if c.Calendar.Enabled {
		if c.Calendar.CredentialsFile == "" {
			return fmt.Errorf("calendar.credentials_file required when calendar is enabled")
		}
		if c.Calendar.Interval.Duration <= 0 {
			return fmt.Errorf("calendar.interval must be positive")
		}
	}

	if c.Input.Enabled {
		if c.Input.Device == "" {
			return fmt.Errorf("input.device required when input is enabled")
		}
		if c.Input.PollInterval.Duration <= 0 {
			return fmt.Errorf("input.poll_interval must be positive")
		}
	}
	for code := range c.Input.KeyMap {
		if _, err := strconv.ParseUint(code, 10, 16); err != nil {
			return fmt.Errorf("input.keymap: invalid key code %q", code)
		}
	}

	if c.Refresh.Interval.Duration <= 0 {
		return fmt.Errorf("refresh.interval must be positive, got %s", c.Refresh.Interval)
	}
	if c.RequestTimeout.Duration <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	return ValidateShortcuts(c.Shortcuts)
}

// ValidateShortcuts checks that the grid fits the three-by-three key layout
// and that every item has a command.
func ValidateShortcuts(groups []ShortcutGroup) error {
	if len(groups) > MaxShortcutGroups {
		return fmt.Errorf("shortcuts: at most %d groups, got %d", MaxShortcutGroups, len(groups))
	}
	for i, g := range groups {
		if len(g.Items) > MaxShortcutItems {
			return fmt.Errorf("shortcuts[%d]: at most %d items, got %d", i, MaxShortcutItems, len(g.Items))
		}
		for j, s := range g.Items {
			if len(s.Argv) == 0 {
				return fmt.Errorf("shortcuts[%d].items[%d]: argv required", i, j)
			}
		}
	}
	return nil
}
