package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	DBPath   string `hcl:"db_path,optional"`
	AuthURL  string `hcl:"auth_url,optional"`
}

// GameSettings contains the timing knobs for live games.
type GameSettings struct {
	// TrickDisplayMs is how long a completed trick stays on screen
	// before the cleared game state is broadcast.
	TrickDisplayMs int `hcl:"trick_display_ms,optional"`

	// InterBotPauseMs is the pause between consecutive bot actions.
	InterBotPauseMs int `hcl:"inter_bot_pause_ms,optional"`
}

// TrickDisplay returns the trick display interval as a duration.
func (g GameSettings) TrickDisplay() time.Duration {
	return time.Duration(g.TrickDisplayMs) * time.Millisecond
}

// InterBotPause returns the inter-bot pause as a duration.
func (g GameSettings) InterBotPause() time.Duration {
	return time.Duration(g.InterBotPauseMs) * time.Millisecond
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
			DBPath:   "hearts.db",
		},
		Game: GameSettings{
			TrickDisplayMs:  1500,
			InterBotPauseMs: 700,
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file, falling
// back to defaults when the file does not exist.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.DBPath == "" {
		config.Server.DBPath = "hearts.db"
	}
	if config.Game.TrickDisplayMs == 0 {
		config.Game.TrickDisplayMs = 1500
	}
	if config.Game.InterBotPauseMs == 0 {
		config.Game.InterBotPauseMs = 700
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.TrickDisplayMs < 0 {
		return fmt.Errorf("trick_display_ms must not be negative")
	}
	if c.Game.InterBotPauseMs < 0 {
		return fmt.Errorf("inter_bot_pause_ms must not be negative")
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
