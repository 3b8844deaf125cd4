package media

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pders01/vodfall/internal/config"
	"github.com/pders01/vodfall/internal/debuglog"
)

// Launcher opens play URLs in a video player and pages in the browser.
type Launcher struct {
	videoPlayer   string
	webOpener     string
	defaultOpener string
	registry      *PlayerRegistry
	detector      *TypeDetector
	start         func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewPlayerRegistry()
	if err != nil {
		debuglog.Warnf("player definitions unavailable: %v", err)
		registry = &PlayerRegistry{players: make(map[string]PlayerDefinition), goos: runtime.GOOS}
	}

	detector, err := NewTypeDetector()
	if err != nil {
		debuglog.Warnf("media types unavailable: %v", err)
		detector = &TypeDetector{config: &TypesConfig{}}
	}

	defaultOpener := cfg.Media.DefaultOpener
	if defaultOpener == "" {
		defaultOpener = detector.GetDefaultOpener()
	}

	l := &Launcher{
		defaultOpener: defaultOpener,
		registry:      registry,
		detector:      detector,
		start:         startDetached,
	}

	var players config.MediaPlayers
	switch runtime.GOOS {
	case "linux":
		players = cfg.Media.Linux
	case "windows":
		players = cfg.Media.Windows
	default:
		players = cfg.Media.Darwin
	}

	l.videoPlayer = findCommand(players.Video...)
	l.webOpener = findCommand(players.Web...)
	if l.videoPlayer == "" {
		l.videoPlayer = defaultOpener
	}
	if l.webOpener == "" {
		l.webOpener = defaultOpener
	}
	return l
}

// Open starts the program for url without waiting for it to exit.
func (l *Launcher) Open(url string) error {
	cmd, program, err := l.Command(url)
	if err != nil {
		return err
	}
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", program, err)
	}
	debuglog.WithFields(map[string]interface{}{"program": program}).Infof("opened %s", url)
	return nil
}

// Command returns the command Open would run for url.
func (l *Launcher) Command(url string) (*exec.Cmd, string, error) {
	kind := l.detector.DetectType(url)

	program := l.defaultOpener
	switch kind {
	case KindVideo:
		program = l.videoPlayer
	case KindWeb:
		program = l.webOpener
	}
	if program == "" {
		return nil, "", fmt.Errorf("no application found to open %s", url)
	}

	cmd, err := l.registry.GetCommand(program, kind, url)
	if err != nil {
		cmd = exec.Command(program, url)
	}
	return cmd, program, nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
