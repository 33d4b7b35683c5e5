// Package config loads the HCL configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete configuration
type Config struct {
	Player   PlayerSettings
	Shoe     ShoeSettings
	Store    StoreSettings
	UI       UISettings
	Simulate SimulateSettings
}

// PlayerSettings identifies the player and their bankroll
type PlayerSettings struct {
	Name            string  `hcl:"name,optional"`
	ID              string  `hcl:"id,optional"`
	StartingBalance float64 `hcl:"starting_balance,optional"`
	DefaultBet      float64 `hcl:"default_bet,optional"`
}

// ShoeSettings selects where cards come from
type ShoeSettings struct {
	Source         string `hcl:"source,optional"`
	APIURL         string `hcl:"api_url,optional"`
	DeckCount      int    `hcl:"deck_count,optional"`
	RequestTimeout int    `hcl:"request_timeout,optional"` // seconds
	Seed           int64  `hcl:"seed,optional"`
}

// StoreSettings selects where balances are saved
type StoreSettings struct {
	Driver string `hcl:"driver,optional"`
	Path   string `hcl:"path,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel     string `hcl:"log_level,optional"`
	LogFile      string `hcl:"log_file,optional"`
	Theme        string `hcl:"theme,optional"`
	ShowHoleCard bool   `hcl:"show_hole_card,optional"`
}

// SimulateSettings are the defaults for the simulate command
type SimulateSettings struct {
	Rounds   int     `hcl:"rounds,optional"`
	Tables   int     `hcl:"tables,optional"`
	Bet      float64 `hcl:"bet,optional"`
	Strategy string  `hcl:"strategy,optional"`
}

// fileConfig mirrors the file layout; every block may be omitted
type fileConfig struct {
	Player   *PlayerSettings   `hcl:"player,block"`
	Shoe     *ShoeSettings     `hcl:"shoe,block"`
	Store    *StoreSettings    `hcl:"store,block"`
	UI       *UISettings       `hcl:"ui,block"`
	Simulate *SimulateSettings `hcl:"simulate,block"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Player: PlayerSettings{
			Name:            "You",
			ID:              "local-player",
			StartingBalance: 1000,
			DefaultBet:      10,
		},
		Shoe: ShoeSettings{
			Source:         "http",
			APIURL:         "https://deckofcardsapi.com",
			DeckCount:      6,
			RequestTimeout: 10,
		},
		Store: StoreSettings{
			Driver: "sqlite",
			Path:   "blackjack.db",
		},
		UI: UISettings{
			LogLevel: "info",
			LogFile:  "blackjack.log",
			Theme:    "default",
		},
		Simulate: SimulateSettings{
			Rounds:   10000,
			Tables:   4,
			Bet:      10,
			Strategy: "basic",
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return config, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Unset values keep their defaults
	if p := fc.Player; p != nil {
		setString(&config.Player.Name, p.Name)
		setString(&config.Player.ID, p.ID)
		setFloat(&config.Player.StartingBalance, p.StartingBalance)
		setFloat(&config.Player.DefaultBet, p.DefaultBet)
	}
	if s := fc.Shoe; s != nil {
		setString(&config.Shoe.Source, s.Source)
		setString(&config.Shoe.APIURL, s.APIURL)
		setInt(&config.Shoe.DeckCount, s.DeckCount)
		setInt(&config.Shoe.RequestTimeout, s.RequestTimeout)
		config.Shoe.Seed = s.Seed
	}
	if s := fc.Store; s != nil {
		setString(&config.Store.Driver, s.Driver)
		setString(&config.Store.Path, s.Path)
	}
	if u := fc.UI; u != nil {
		setString(&config.UI.LogLevel, u.LogLevel)
		setString(&config.UI.LogFile, u.LogFile)
		setString(&config.UI.Theme, u.Theme)
		config.UI.ShowHoleCard = u.ShowHoleCard
	}
	if s := fc.Simulate; s != nil {
		setInt(&config.Simulate.Rounds, s.Rounds)
		setInt(&config.Simulate.Tables, s.Tables)
		setFloat(&config.Simulate.Bet, s.Bet)
		setString(&config.Simulate.Strategy, s.Strategy)
	}

	return config, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

// MaxDeckCount is the largest shoe the card service will build
const MaxDeckCount = 20

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Player.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if c.Player.StartingBalance <= 0 {
		return fmt.Errorf("starting balance must be positive")
	}
	if c.Player.DefaultBet <= 0 {
		return fmt.Errorf("default bet must be positive")
	}

	switch c.Shoe.Source {
	case "http":
		if c.Shoe.APIURL == "" {
			return fmt.Errorf("api_url is required for the http card source")
		}
	case "local":
	default:
		return fmt.Errorf("invalid card source: %s", c.Shoe.Source)
	}

	if c.Shoe.DeckCount < 1 || c.Shoe.DeckCount > MaxDeckCount {
		return fmt.Errorf("deck count must be between 1 and %d, got %d", MaxDeckCount, c.Shoe.DeckCount)
	}
	if c.Shoe.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}

	switch c.Store.Driver {
	case "sqlite", "file":
		if c.Store.Path == "" {
			return fmt.Errorf("store path is required for the %s driver", c.Store.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("invalid store driver: %s", c.Store.Driver)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.UI.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}

	// Validate theme
	validThemes := map[string]bool{
		"default": true,
		"dark":    true,
		"light":   true,
	}
	if !validThemes[c.UI.Theme] {
		return fmt.Errorf("invalid theme: %s", c.UI.Theme)
	}

	if c.Simulate.Rounds <= 0 {
		return fmt.Errorf("simulate rounds must be positive")
	}
	if c.Simulate.Tables <= 0 {
		return fmt.Errorf("simulate tables must be positive")
	}
	if c.Simulate.Bet <= 0 {
		return fmt.Errorf("simulate bet must be positive")
	}

	return nil
}

// RequestTimeout returns the card service request timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Shoe.RequestTimeout) * time.Second
}

// Level returns the configured log level
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.UI.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
