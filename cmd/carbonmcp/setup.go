package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/gnana997/carbonmcp/pkg/loader"
)

const (
	serverEntryName = "carbon-mcp"
	serverCommand   = "carbonmcp"

	// standaloneConfig is written to the working directory for clients
	// that take a generic MCP config file.
	standaloneConfig = "mcp-config.json"
)

// AgentDef defines how to detect and configure one AI agent.
type AgentDef struct {
	ID          string
	DisplayName string
	Method      string            // "cli" or "file"
	Binary      string            // for CLI agents: binary name on PATH
	EnvFlag     string            // for CLI agents: flag passing one KEY=VALUE
	DirMarkers  []string          // for file-based: dirs that indicate presence
	ConfigPath  func() string     // returns resolved config file path
	ServersKey  string            // JSON key: "servers" (VS Code) or "mcpServers" (others)
	NeedsScope  bool              // whether to prompt for project/user scope
	ExtraFields map[string]string // extra JSON fields (e.g. "type": "stdio" for VS Code)
}

// entryState describes the carbon-mcp entry found in an agent config.
type entryState int

const (
	entryMissing entryState = iota
	entryCurrent
	entryStale
)

// DetectedAgent is an agent found on the system.
type DetectedAgent struct {
	Def            AgentDef
	State          entryState
	ResolvedConfig string // resolved config path for file-based agents
}

type setupOptions struct {
	auto bool
	// env is passed to the server through the agent config.
	env map[string]string
}

// Replaceable for testing.
var (
	lookPathFunc = exec.LookPath
	statFunc     = os.Stat
	runCommand   = func(w io.Writer, name string, args ...string) error {
		cmd := exec.Command(name, args...)
		cmd.Stdout = w
		cmd.Stderr = w
		return cmd.Run()
	}
)

// agentRegistry lists all supported agents in display order.
var agentRegistry = []AgentDef{
	{
		ID: "claude_code", DisplayName: "Claude Code",
		Method: "cli", Binary: "claude", EnvFlag: "-e", NeedsScope: true,
	},
	{
		ID: "openai_codex", DisplayName: "OpenAI Codex",
		Method: "cli", Binary: "codex", EnvFlag: "--env",
	},
	{
		ID: "vscode_copilot", DisplayName: "VS Code Copilot",
		Method: "file", DirMarkers: []string{".vscode"},
		ConfigPath:  func() string { return filepath.Join(".vscode", "mcp.json") },
		ServersKey:  "servers",
		ExtraFields: map[string]string{"type": "stdio"},
	},
	{
		ID: "cursor", DisplayName: "Cursor",
		Method: "file", DirMarkers: []string{".cursor"},
		ConfigPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		ServersKey: "mcpServers",
	},
	{
		ID: "claude_desktop", DisplayName: "Claude Desktop",
		Method:     "file",
		ConfigPath: claudeDesktopConfigPath,
		ServersKey: "mcpServers",
	},
}

// claudeDesktopConfigPath returns the OS-specific Claude Desktop config path.
func claudeDesktopConfigPath() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	}
	// ~/Library/Application Support on darwin, $XDG_CONFIG_HOME elsewhere.
	return filepath.Join(xdg.ConfigHome, "Claude", "claude_desktop_config.json")
}

func newSetupCommand(a *app) *cobra.Command {
	var opts setupOptions
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the carbon-mcp server with detected AI agents",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			env, err := serverEnv(a.sources())
			if err != nil {
				return err
			}
			opts.env = env
			return executeSetup(a.stdin, a.stdout, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.auto, "auto", false, "configure every detected agent without prompting")
	return cmd
}

// serverEnv pins the server to the resolved catalog paths.
func serverEnv(sources loader.Sources) (map[string]string, error) {
	env := make(map[string]string, 4)
	for key, path := range map[string]string{
		"CARBON_DB":     sources.Components,
		"CARBON_TOKENS": sources.Tokens,
		"CARBON_ICONS":  sources.Icons,
		"CARBON_PICTOS": sources.Pictograms,
	} {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		env[key] = abs
	}
	return env, nil
}

// detectAgents scans the system for installed/accessible AI agents.
func detectAgents(env map[string]string) []DetectedAgent {
	var detected []DetectedAgent

	for _, def := range agentRegistry {
		switch def.Method {
		case "cli":
			if _, err := lookPathFunc(def.Binary); err == nil {
				detected = append(detected, DetectedAgent{
					Def:   def,
					State: fileEntryState(".mcp.json", "mcpServers", serverEntry(nil, env)),
				})
			}

		case "file":
			found := false
			configPath := ""

			for _, marker := range def.DirMarkers {
				if _, err := statFunc(marker); err == nil {
					found = true
					if def.ConfigPath != nil {
						configPath = def.ConfigPath()
					}
					break
				}
			}

			// Agents without dir markers are present when their config dir exists.
			if !found && len(def.DirMarkers) == 0 && def.ConfigPath != nil {
				configPath = def.ConfigPath()
				if _, err := statFunc(filepath.Dir(configPath)); err == nil {
					found = true
				}
			}

			if found {
				d := DetectedAgent{Def: def, ResolvedConfig: configPath}
				if configPath != "" {
					d.State = fileEntryState(configPath, def.ServersKey, serverEntry(def.ExtraFields, env))
				}
				detected = append(detected, d)
			}
		}
	}

	return detected
}

// fileEntryState reports whether configPath holds the given entry.
func fileEntryState(configPath, serversKey string, want map[string]any) entryState {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return entryMissing
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return entryMissing
	}
	return compareEntry(config, serversKey, want)
}

func compareEntry(config map[string]any, serversKey string, want map[string]any) entryState {
	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		return entryMissing
	}
	have, exists := servers[serverEntryName]
	if !exists {
		return entryMissing
	}
	if reflect.DeepEqual(have, normalize(want)) {
		return entryCurrent
	}
	return entryStale
}

// normalize converts v to the shape encoding/json produces when decoding
// into any, so it compares equal to an entry read from disk.
func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// serverEntry returns the MCP server config object for carbon-mcp.
func serverEntry(extra, env map[string]string) map[string]any {
	entry := map[string]any{
		"command": serverCommand,
		"args":    []any{"serve"},
	}
	if len(env) > 0 {
		envObj := make(map[string]any, len(env))
		for k, v := range env {
			envObj[k] = v
		}
		entry["env"] = envObj
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry reads existing JSON (or creates new), sets the carbon-mcp
// entry under serversKey, and returns the merged JSON bytes. A stale entry
// is replaced. Returns nil, nil if the identical entry is already present.
func mergeServerEntry(existing []byte, serversKey string, entry map[string]any) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	if compareEntry(config, serversKey, entry) == entryCurrent {
		return nil, nil
	}

	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	servers[serverEntryName] = entry
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// cliAddArgs builds the `<binary> mcp add` arguments for a CLI agent.
func cliAddArgs(def AgentDef, scope string, env map[string]string) []string {
	args := []string{"mcp", "add"}
	if scope != "" {
		args = append(args, "--scope", scope)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, def.EnvFlag, k+"="+env[k])
	}
	return append(args, serverEntryName, "--", serverCommand, "serve")
}

// configureCLIAgent runs `<binary> mcp add` with the chosen scope.
func configureCLIAgent(w io.Writer, def AgentDef, scope string, env map[string]string) error {
	return runCommand(w, def.Binary, cliAddArgs(def, scope, env)...)
}

// configureFileAgent reads, merges, and writes the JSON config file. It
// reports whether the file changed.
func configureFileAgent(def AgentDef, configPath string, env map[string]string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}

	var existing []byte
	if data, err := os.ReadFile(configPath); err == nil {
		existing = data
	}

	merged, err := mergeServerEntry(existing, def.ServersKey, serverEntry(def.ExtraFields, env))
	if err != nil {
		return false, err
	}
	if merged == nil {
		return false, nil
	}
	return true, os.WriteFile(configPath, merged, 0o644)
}

// --- Interactive prompts ---

// promptYesNo prints a question and reads Y/n. Returns true for yes (default).
func promptYesNo(r *bufio.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s ", question)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return true
	}
	answer := strings.TrimSpace(strings.ToLower(line))
	return answer == "" || answer == "y" || answer == "yes"
}

// promptScope prints scope options and reads 1/2/3.
// Returns "project", "user", or "" (skip).
func promptScope(r *bufio.Reader, w io.Writer, agentName string) string {
	fmt.Fprintf(w, "\n%s: add the %s MCP server?\n", agentName, serverEntryName)
	fmt.Fprintln(w, "  [1] Project scope (shared with team)")
	fmt.Fprintln(w, "  [2] User scope (personal, global)")
	fmt.Fprintln(w, "  [3] Skip")
	fmt.Fprintf(w, "  > ")

	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "project"
	}
	switch strings.TrimSpace(line) {
	case "1", "":
		return "project"
	case "2":
		return "user"
	default:
		return ""
	}
}

// --- Orchestration ---

// executeSetup contains the testable core logic, parameterized on I/O.
func executeSetup(in io.Reader, w io.Writer, opts setupOptions) error {
	r := bufio.NewReader(in)

	changed, err := configureFileAgent(AgentDef{ServersKey: "mcpServers"}, standaloneConfig, opts.env)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", standaloneConfig, err)
	}
	if changed {
		fmt.Fprintf(w, "Wrote %s\n\n", standaloneConfig)
	}

	detected := detectAgents(opts.env)
	if len(detected) == 0 {
		fmt.Fprintln(w, "No supported AI agents detected.")
		return nil
	}

	fmt.Fprintln(w, "Detected AI agents:")
	for _, d := range detected {
		switch d.State {
		case entryCurrent:
			fmt.Fprintf(w, "  * %s (already configured)\n", d.Def.DisplayName)
		case entryStale:
			fmt.Fprintf(w, "  * %s (configured, out of date)\n", d.Def.DisplayName)
		default:
			fmt.Fprintf(w, "  * %s\n", d.Def.DisplayName)
		}
	}
	fmt.Fprintln(w)

	if !opts.auto {
		if !promptYesNo(r, w, "Configure agents? [Y/n]") {
			return nil
		}
	}

	for _, d := range detected {
		if d.State == entryCurrent {
			fmt.Fprintf(w, "\n%s: already configured, skipping\n", d.Def.DisplayName)
			continue
		}
		configureOneAgent(r, w, d, opts)
	}
	return nil
}

func configureOneAgent(r *bufio.Reader, w io.Writer, d DetectedAgent, opts setupOptions) {
	switch d.Def.Method {
	case "cli":
		scope := ""
		if d.Def.NeedsScope {
			scope = "project"
			if !opts.auto {
				scope = promptScope(r, w, d.Def.DisplayName)
				if scope == "" {
					fmt.Fprintf(w, "  skipped\n")
					return
				}
			}
		}
		if d.State == entryStale {
			if err := runCommand(w, d.Def.Binary, "mcp", "remove", serverEntryName); err != nil {
				fmt.Fprintf(w, "  ! %s: failed to remove old entry: %v\n", d.Def.DisplayName, err)
				return
			}
		}
		if err := configureCLIAgent(w, d.Def, scope, opts.env); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.Def.DisplayName, err)
			return
		}
		if scope != "" {
			fmt.Fprintf(w, "  + %s configured (scope: %s)\n", d.Def.DisplayName, scope)
		} else {
			fmt.Fprintf(w, "  + %s configured\n", d.Def.DisplayName)
		}

	case "file":
		if !opts.auto {
			if !promptYesNo(r, w, fmt.Sprintf("\n%s: add to %s? [Y/n]", d.Def.DisplayName, d.ResolvedConfig)) {
				fmt.Fprintf(w, "  skipped\n")
				return
			}
		}
		if _, err := configureFileAgent(d.Def, d.ResolvedConfig, opts.env); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.Def.DisplayName, err)
			return
		}
		fmt.Fprintf(w, "  + %s configured (%s)\n", d.Def.DisplayName, d.ResolvedConfig)
	}
}
