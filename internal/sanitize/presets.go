// DBIMGTOOL ⸻ internal/sanitize/presets.go
// named policy presets from a Lua file

package sanitize

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
)

// LoadPresets finds and parses the presets file. Search order mirrors
// the config: working dir, config/, then the user dir.
func LoadPresets() (map[string]Policy, error) {
	paths := []string{
		"presets.lua",
		filepath.Join("config", "presets.lua"),
		filepath.Join(os.Getenv("HOME"), ".dbimgtool", "presets.lua"),
	}

	var presetPath string
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			presetPath = path
			break
		}
	}

	if presetPath == "" {
		return nil, fmt.Errorf("presets.lua not found in search paths")
	}

	data, err := os.ReadFile(presetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}

	return ParsePresets(string(data))
}

// ParsePresets executes a Lua chunk that returns a table of tables:
//
//	return {
//	  social  = { gps = true, device = true, date = false, strip_only = true },
//	  archive = { gps = true, device = false, date = false },
//	}
func ParsePresets(src string) (map[string]Policy, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("failed to execute presets Lua: %w", err)
	}

	result := L.Get(-1)
	table, ok := result.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("presets Lua must return a table")
	}

	presets := make(map[string]Policy)
	var convErr error

	table.ForEach(func(k, v lua.LValue) {
		name := k.String()
		entry, ok := v.(*lua.LTable)
		if !ok {
			convErr = fmt.Errorf("preset %q must be a table", name)
			return
		}

		presets[name] = Policy{
			GPS:       luaBool(entry, "gps"),
			Device:    luaBool(entry, "device"),
			Date:      luaBool(entry, "date"),
			StripOnly: luaBool(entry, "strip_only"),
		}
	})

	if convErr != nil {
		return nil, convErr
	}
	return presets, nil
}

// DefaultPresets are used when no presets file exists
func DefaultPresets() map[string]Policy {
	return map[string]Policy{
		"social":  {GPS: true, Device: true, Date: true, StripOnly: true},
		"archive": {GPS: true, StripOnly: true},
	}
}

func luaBool(t *lua.LTable, key string) bool {
	v := t.RawGetString(key)
	b, ok := v.(lua.LBool)
	return ok && bool(b)
}
