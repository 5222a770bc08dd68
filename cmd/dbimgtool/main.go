// DBIMGTOOL ⸻ cmd/dbimgtool/main.go
// CLI entrypoint and command routing

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jdeng/goheif"

	"github.com/dbeglaryan/dbimagetoolset/internal/capability"
	"github.com/dbeglaryan/dbimagetoolset/internal/config"
	"github.com/dbeglaryan/dbimagetoolset/internal/convert"
	"github.com/dbeglaryan/dbimagetoolset/internal/daemon"
	"github.com/dbeglaryan/dbimagetoolset/internal/exiftool"
	"github.com/dbeglaryan/dbimagetoolset/internal/metadata"
	"github.com/dbeglaryan/dbimagetoolset/internal/plugins"
	"github.com/dbeglaryan/dbimagetoolset/internal/safe"
	"github.com/dbeglaryan/dbimagetoolset/internal/sanitize"
	"github.com/dbeglaryan/dbimagetoolset/internal/session"
	"github.com/dbeglaryan/dbimagetoolset/internal/util"
)

const version = "1.0.0"

// app holds the collaborators wired once at startup
type app struct {
	cfg       *config.Config
	runner    *exiftool.Runner // nil when the tool is absent
	reader    *metadata.Reader
	sanitizer *sanitize.Sanitizer
	caps      capability.Set
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	a := wire()

	switch command := os.Args[1]; command {
	case "inspect":
		a.handleInspect(os.Args[2:])
	case "strip":
		a.handleStrip(os.Args[2:])
	case "convert":
		a.handleConvert(os.Args[2:])
	case "safe":
		a.handleSafe(os.Args[2:])
	case "watch":
		a.handleWatch(os.Args[2:])
	case "tools":
		a.handleTools()
	case "help":
		printUsage()
	case "version":
		printVersion()
	default:
		fmt.Println(util.Fail.Render("[!] Unknown command: " + command))
		printUsage()
		os.Exit(1)
	}
}

// wire resolves config and probes every optional collaborator once
func wire() *app {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	// optional HEIC/HEIF decoding: injected here, queried nowhere else
	convert.RegisterDecoder(convert.HEIC, goheif.Decode)

	runner, err := exiftool.Discover(cfg.Tool.Dir)
	if err != nil {
		runner = nil
	}

	return &app{
		cfg:       cfg,
		runner:    runner,
		reader:    metadata.NewReader(runner),
		sanitizer: sanitize.NewSanitizer(runner),
		caps:      capability.Detect(cfg.Tool.Dir),
	}
}

func (a *app) handleInspect(args []string) {
	if len(args) < 1 {
		fail("No file specified", "Usage: dbimgtool inspect <file>")
	}
	path := args[0]

	report, err := util.SpinWhile("[~] Reading metadata", func() (string, error) {
		rec, err := a.reader.Read(path)
		if err != nil {
			return "", err
		}
		return metadata.RenderReport(path, rec), nil
	})
	if err != nil {
		fail("Inspect failed: "+err.Error(), "")
	}

	fmt.Println(report)
}

func (a *app) handleStrip(args []string) {
	if len(args) < 1 {
		fail("No file specified", "Usage: dbimgtool strip <file> [options]")
	}
	path := args[0]

	policy := sanitize.Policy{StripOnly: true}
	var output string
	inPlace := false
	keepBackup := true
	secure := false

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--gps":
			policy.GPS = true
		case "--device":
			policy.Device = true
		case "--date":
			policy.Date = true
		case "--all":
			policy = sanitize.All(true)
		case "--preset":
			i++
			if i >= len(args) {
				fail("--preset needs a name", "")
			}
			policy = resolvePreset(args[i])
		case "-o", "--output":
			i++
			if i >= len(args) {
				fail("--output needs a path", "")
			}
			output = args[i]
		case "--in-place":
			inPlace = true
		case "--no-backup":
			keepBackup = false
		case "--secure":
			secure = true
		default:
			fail("Unknown option: "+args[i], "Usage: dbimgtool strip <file> [options]")
		}
	}

	if !policy.Enabled() {
		policy = sanitize.All(true)
	}

	if !a.sanitizer.ToolAvailable() {
		fmt.Println(util.Fail.Render("[X] Cannot strip metadata: exiftool not found"))
		fmt.Println(util.Sub.Render("    Install exiftool, or place the binary under tools/"))
		fmt.Println(util.Sub.Render("    (flat, or nested in tools/exiftool_files/)."))
		os.Exit(1)
	}

	sess := session.New()
	buf, err := sess.Open(path)
	if err != nil {
		fail("Open failed: "+err.Error(), "")
	}

	if inPlace {
		if err := util.ValidateWritable(path); err != nil {
			fail("Cannot strip in place: "+err.Error(), "")
		}
	}

	_, err = util.SpinWhile(fmt.Sprintf("[~] Stripping %s", policy), func() (string, error) {
		out, err := a.sanitizer.Strip(buf.Bytes(), buf.Ext(), policy)
		if err != nil {
			return "", err
		}
		if err := sess.Apply(out, ""); err != nil {
			return "", err
		}

		verify, err := sanitize.Verify(a.reader, out, buf.Ext(), policy)
		if err != nil {
			return "", err
		}
		if !verify.Clean {
			return "", fmt.Errorf("verification found remaining tags: %s",
				strings.Join(verify.Remaining, ", "))
		}
		return "", nil
	})
	if err != nil {
		fail("Strip failed: "+err.Error(), "")
	}

	dest := output
	var backupPath string
	switch {
	case inPlace:
		dest = path
		backupPath, err = util.CreateBackup(path)
		if err != nil {
			fail("Backup failed: "+err.Error(), "")
		}
	case dest == "":
		dest = util.GenerateOutputPath(path, a.cfg.Output.Suffix)
	}

	if err := sess.Commit(dest); err != nil {
		fail("Write failed: "+err.Error(), "")
	}

	if inPlace && !keepBackup && backupPath != "" {
		if secure {
			_ = util.SecureOverwriteFile(backupPath)
		} else {
			_ = os.Remove(backupPath)
		}
		backupPath = ""
	}

	fmt.Println(util.Ok.Render("✓ Stripped " + policy.String()))
	fmt.Println(util.Info.Render("[i] Output: " + dest))
	if backupPath != "" {
		fmt.Println(util.Sub.Render("[i] Backup: " + backupPath))
	}
}

func (a *app) handleConvert(args []string) {
	if len(args) < 1 {
		fail("No file specified", "Usage: dbimgtool convert <file> --to png|jpeg|webp [-o out]")
	}
	path := args[0]

	var target convert.Format
	var output string

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--to":
			i++
			if i >= len(args) {
				fail("--to needs a format", "")
			}
			f, ok := convert.FromExtension(args[i])
			if !ok {
				f = convert.Format(strings.ToLower(args[i]))
			}
			target = f
		case "-o", "--output":
			i++
			if i >= len(args) {
				fail("--output needs a path", "")
			}
			output = args[i]
		default:
			fail("Unknown option: "+args[i], "Usage: dbimgtool convert <file> --to png|jpeg|webp [-o out]")
		}
	}

	if target == "" {
		fail("No target format", "Usage: dbimgtool convert <file> --to png|jpeg|webp [-o out]")
	}

	sess := session.New()
	buf, err := sess.Open(path)
	if err != nil {
		fail("Open failed: "+err.Error(), "")
	}

	out, err := convert.Convert(buf.Bytes(), target)
	if err != nil {
		if errors.Is(err, convert.ErrUnsupportedTarget) {
			targets := make([]string, 0, 3)
			for _, t := range convert.SaveTargets() {
				targets = append(targets, string(t))
			}
			fail(err.Error(), "Allowed targets: "+strings.Join(targets, ", "))
		}
		fail("Convert failed: "+err.Error(), "")
	}

	if err := sess.Apply(out, target.Extension()); err != nil {
		fail(err.Error(), "")
	}

	dest := output
	if dest == "" {
		dest = replaceExt(path, target.Extension())
		if dest == path {
			dest = util.GenerateOutputPath(path, a.cfg.Output.Suffix)
		}
	}

	if err := sess.Commit(dest); err != nil {
		fail("Write failed: "+err.Error(), "")
	}

	fmt.Println(util.Ok.Render("✓ Converted to " + strings.ToUpper(string(target))))
	fmt.Println(util.Info.Render("[i] Output: " + dest))
}

func (a *app) handleSafe(args []string) {
	if len(args) < 1 {
		fail("No file specified", "Usage: dbimgtool safe <file> [--strip-only] [-o out]")
	}
	path := args[0]

	opts := safe.Options{}
	var output string

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--strip-only":
			opts.StripOnly = true
		case "-o", "--output":
			i++
			if i >= len(args) {
				fail("--output needs a path", "")
			}
			output = args[i]
		default:
			fail("Unknown option: "+args[i], "Usage: dbimgtool safe <file> [--strip-only] [-o out]")
		}
	}

	if !opts.StripOnly && a.caps.Has(capability.BGRemove) {
		if remover, ok := plugins.FindBackgroundRemover(); ok {
			opts.Remover = remover
		}
	}

	if opts.StripOnly && !a.sanitizer.ToolAvailable() {
		fmt.Println(util.Fail.Render("[X] SAFE (strip-only) needs exiftool"))
		fmt.Println(util.Sub.Render("    Install exiftool, or place the binary under tools/"))
		os.Exit(1)
	}

	sess := session.New()
	buf, err := sess.Open(path)
	if err != nil {
		fail("Open failed: "+err.Error(), "")
	}

	var result *safe.Result
	report, err := util.SpinWhile("[~] Creating SAFE copy", func() (string, error) {
		result, err = safe.Run(a.sanitizer, buf.Bytes(), buf.Ext(), opts)
		if err != nil {
			return "", err
		}
		return safe.FormatResult(result), nil
	})
	if err != nil {
		fail("SAFE failed: "+err.Error(), "")
	}

	if err := sess.Apply(result.Output, result.Ext); err != nil {
		fail(err.Error(), "")
	}

	dest := output
	if dest == "" {
		dest = replaceExt(util.GenerateOutputPath(path, ".safe"), result.Ext)
	}

	if err := sess.Commit(dest); err != nil {
		fail("Write failed: "+err.Error(), "")
	}

	fmt.Println(report)
	fmt.Println(util.Info.Render("[i] Output: " + dest))
}

func (a *app) handleWatch(args []string) {
	if len(args) < 1 {
		fail("Watch mode requires a subcommand", "Usage: dbimgtool watch on|off|status")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fail("Cannot determine home directory", "")
	}
	pidFile := filepath.Join(homeDir, ".dbimgtool", "daemon.pid")

	switch args[0] {
	case "on", "start":
		if pidFileExists(pidFile) {
			fmt.Println(util.Warn.Render("[!] Watcher is already running"))
			os.Exit(0)
		}

		d, err := daemon.New(a.cfg)
		if err != nil {
			fail("Failed to create watcher: "+err.Error(), "")
		}
		if err := d.Start(); err != nil {
			fail("Failed to start watcher: "+err.Error(), "")
		}

		if err := os.MkdirAll(filepath.Dir(pidFile), 0755); err == nil {
			pid := fmt.Appendf(nil, "%d", os.Getpid())
			if err := os.WriteFile(pidFile, pid, 0644); err != nil {
				fmt.Println(util.Warn.Render("[!] Could not write PID file"))
			}
		}

		fmt.Println(util.Ok.Render("[✓] Watcher started"))
		select {}

	case "off", "stop":
		if !pidFileExists(pidFile) {
			fmt.Println(util.Warn.Render("[!] Watcher is not running"))
			os.Exit(0)
		}
		if err := os.Remove(pidFile); err != nil {
			fail("Could not remove PID file", "")
		}
		fmt.Println(util.Ok.Render("[✓] Watcher stopped"))

	case "status":
		if pidFileExists(pidFile) {
			pid, _ := os.ReadFile(pidFile)
			fmt.Println(util.Info.Render("[...] Watcher is running (PID " + strings.TrimSpace(string(pid)) + ")"))
		} else {
			fmt.Println(util.Info.Render("[...] Watcher is not running"))
		}

	default:
		fail("Unknown watch command: "+args[0], "Usage: dbimgtool watch on|off|status")
	}
}

func (a *app) handleTools() {
	fmt.Println(util.Head.Render("CAPABILITIES"))

	if a.runner != nil {
		fmt.Println(util.Ok.Render("  exiftool  OK  ") + util.Sub.Render(a.runner.Path()))
	} else {
		fmt.Println(util.Warn.Render("  exiftool  not found"))
		fmt.Println(util.Sub.Render("            reads degrade to the embedded EXIF block;"))
		fmt.Println(util.Sub.Render("            strip operations are unavailable"))
	}

	printCap := func(name string, ok bool, hint string) {
		if ok {
			fmt.Println(util.Ok.Render("  " + name + "  OK"))
		} else {
			fmt.Println(util.Sub.Render("  " + name + "  not available  (" + hint + ")"))
		}
	}
	printCap("heic    ", a.caps.Has(capability.HEIC), "decoder not registered")
	printCap("avif    ", a.caps.Has(capability.AVIF), "decoder not registered")
	printCap("bgremove", a.caps.Has(capability.BGRemove), "rembg not on PATH")
}

func resolvePreset(name string) sanitize.Policy {
	presets, err := sanitize.LoadPresets()
	if err != nil {
		presets = sanitize.DefaultPresets()
	}

	policy, ok := presets[name]
	if !ok {
		known := make([]string, 0, len(presets))
		for k := range presets {
			known = append(known, k)
		}
		fail("Unknown preset: "+name, "Known presets: "+strings.Join(known, ", "))
	}
	return policy
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func pidFileExists(pidFile string) bool {
	_, err := os.Stat(pidFile)
	return err == nil
}

func fail(msg, hint string) {
	fmt.Println(util.Fail.Render("[X] " + msg))
	if hint != "" {
		fmt.Println(util.Sub.Render(hint))
	}
	os.Exit(1)
}

func printUsage() {
	fmt.Println(util.Head.Render("USAGE"))
	fmt.Println("  dbimgtool <command> [options]")
	fmt.Println("")
	fmt.Println(util.Head.Render("COMMANDS"))
	fmt.Println("  inspect <file>            show metadata, GPS and a privacy summary")
	fmt.Println("  strip <file> [options]    remove selected metadata categories")
	fmt.Println("  convert <file> --to <f>   re-encode as png, jpeg or webp")
	fmt.Println("  safe <file> [options]     one-shot sanitized copy")
	fmt.Println("  watch on|off|status       background sanitizing of watched dirs")
	fmt.Println("  tools                     report optional tool availability")
	fmt.Println("  help                      show this help")
	fmt.Println("  version                   show version information")
	fmt.Println("")
	fmt.Println(util.Head.Render("STRIP OPTIONS"))
	fmt.Println("  --gps --device --date     categories to remove (default: all)")
	fmt.Println("  --all                     remove all three categories")
	fmt.Println("  --preset <name>           use a named preset from presets.lua")
	fmt.Println("  -o, --output <path>       write result to path")
	fmt.Println("  --in-place                overwrite the original (with .bak backup)")
	fmt.Println("  --no-backup               drop the backup after a successful strip")
	fmt.Println("  --secure                  securely overwrite the dropped backup")
	fmt.Println("")
	fmt.Println(util.Head.Render("SAFE OPTIONS"))
	fmt.Println("  --strip-only              metadata removal only, no pixel changes")
}

func printVersion() {
	fmt.Println(util.Head.Render("dbimgtool v" + version))
	fmt.Println(util.Sub.Render("image metadata inspection, sanitization and conversion"))
}
