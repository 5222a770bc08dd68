// DBIMGTOOL ⸻ internal/util/style.go
// CLI visual style, color roles and motion

package util

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

type themeConfig struct {
	Colors struct {
		Accent string
		Alert  string
		Good   string
		Muted  string
		Text   string
	}
}

// ╭─ STYLE ROLES ───────────────────────────────╮
var (
	Head lipgloss.Style // section headers
	Warn lipgloss.Style // warnings, actionable notices
	Fail lipgloss.Style // hard errors
	Ok   lipgloss.Style // success lines
	Info lipgloss.Style // primary content
	Sub  lipgloss.Style // secondary content
	Orn  lipgloss.Style // ornaments and bullets
)

func init() {
	cfg := loadTheme()

	accent := lipgloss.Color(cfg.Colors.Accent)
	alert := lipgloss.Color(cfg.Colors.Alert)
	good := lipgloss.Color(cfg.Colors.Good)
	muted := lipgloss.Color(cfg.Colors.Muted)
	text := lipgloss.Color(cfg.Colors.Text)

	Head = lipgloss.NewStyle().Foreground(accent).Bold(true)
	Warn = lipgloss.NewStyle().Foreground(alert).Bold(true)
	Fail = lipgloss.NewStyle().Foreground(alert).Bold(true).Underline(true)
	Ok = lipgloss.NewStyle().Foreground(good).Bold(true)
	Info = lipgloss.NewStyle().Foreground(text).Bold(true)
	Sub = lipgloss.NewStyle().Foreground(muted)
	Orn = lipgloss.NewStyle().Foreground(muted).Bold(true)
}

func loadTheme() themeConfig {
	var cfg themeConfig

	paths := []string{
		"theme.toml",
		filepath.Join("config", "theme.toml"),
		filepath.Join(os.Getenv("HOME"), ".dbimgtool", "theme.toml"),
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, &cfg); err == nil {
			return cfg
		}
	}

	cfg.Colors.Accent = "#7AA2F7"
	cfg.Colors.Alert = "#FF5C00"
	cfg.Colors.Good = "#88AABB"
	cfg.Colors.Muted = "#666666"
	cfg.Colors.Text = "#C0C0C0"

	return cfg
}

// ╭─ ORNAMENT ──────────────────────────────────╮
var Divider = func() string {
	return Sub.Render(strings.Repeat("─", 48))
}

// ╭─ SPINNER ───────────────────────────────────╮

// SpinWhile runs fn while animating a spinner label on the terminal.
// Used around blocking subprocess calls so the interface stays alive.
func SpinWhile(label string, fn func() (string, error)) (string, error) {
	s := spinner.New(spinner.WithSpinner(spinner.Meter))
	ticker := time.NewTicker(s.Spinner.FPS)
	defer ticker.Stop()

	done := make(chan struct{})
	result := make(chan struct {
		out string
		err error
	})

	go func() {
		frame := 0
		frames := s.Spinner.Frames
		for {
			select {
			case <-ticker.C:
				fmt.Printf("\r%s %s", Orn.Render(frames[frame]), Head.Render(label))
				frame = (frame + 1) % len(frames)
			case <-done:
				return
			}
		}
	}()

	go func() {
		out, err := fn()
		result <- struct {
			out string
			err error
		}{out, err}
	}()

	res := <-result
	close(done)
	fmt.Print("\r" + strings.Repeat(" ", 64) + "\r")
	return res.out, res.err
}

// ╭─ CLEAR ─────────────────────────────────────╮
func Wiper() {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "cls")
	} else {
		cmd = exec.Command("clear")
	}
	cmd.Stdout = os.Stdout
	cmd.Run()
}
