package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

//go:embed players.toml
var playersTOML []byte

// PlayerDefinition describes how to invoke one program per kind of URL.
type PlayerDefinition struct {
	Description string      `toml:"description"`
	Platforms   []string    `toml:"platforms"`
	Video       *KindConfig `toml:"video,omitempty"`
	Web         *KindConfig `toml:"web,omitempty"`
}

type KindConfig struct {
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

type PlayersConfig struct {
	Players map[string]PlayerDefinition `toml:"players"`
}

type PlayerRegistry struct {
	players map[string]PlayerDefinition
	goos    string
}

// NewPlayerRegistry loads the embedded definitions and overlays the user's
// ~/.config/vodfall/players.toml when present.
func NewPlayerRegistry() (*PlayerRegistry, error) {
	registry, err := newRegistryFromTOML(playersTOML)
	if err != nil {
		return nil, err
	}
	if home, err := os.UserHomeDir(); err == nil {
		registry.loadOverrides(filepath.Join(home, ".config", "vodfall", "players.toml"))
	}
	return registry, nil
}

func newRegistryFromTOML(data []byte) (*PlayerRegistry, error) {
	var config PlayersConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing players.toml: %w", err)
	}
	if config.Players == nil {
		config.Players = make(map[string]PlayerDefinition)
	}
	return &PlayerRegistry{players: config.Players, goos: runtime.GOOS}, nil
}

func (r *PlayerRegistry) loadOverrides(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var user PlayersConfig
	if err := toml.Unmarshal(data, &user); err != nil {
		return
	}
	for name, def := range user.Players {
		r.players[name] = def
	}
}

// GetCommand builds the command that opens url with playerName. Unknown
// players are run with the URL as their only argument.
func (r *PlayerRegistry) GetCommand(playerName string, kind Kind, url string) (*exec.Cmd, error) {
	player, ok := r.players[playerName]
	if !ok {
		return exec.Command(playerName, url), nil
	}

	if !contains(player.Platforms, r.goos) {
		return nil, fmt.Errorf("%s not supported on %s", playerName, r.goos)
	}

	var config *KindConfig
	switch kind {
	case KindVideo:
		config = player.Video
	case KindWeb:
		config = player.Web
	}
	if config == nil {
		return nil, fmt.Errorf("%s cannot open %s URLs", playerName, kind)
	}

	args := append(append([]string(nil), r.args(config)...), url)
	return exec.Command(playerName, args...), nil
}

func (r *PlayerRegistry) args(config *KindConfig) []string {
	switch r.goos {
	case "darwin":
		if len(config.ArgsDarwin) > 0 {
			return config.ArgsDarwin
		}
	case "linux":
		if len(config.ArgsLinux) > 0 {
			return config.ArgsLinux
		}
	case "windows":
		if len(config.ArgsWindows) > 0 {
			return config.ArgsWindows
		}
	}
	return config.Args
}
