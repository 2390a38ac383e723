package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediakit/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	dataDir    string
	configPath string
	binDir     string
}

const ffprobeAudioJSON = `{"streams":[{"index":0,"codec_type":"audio","codec_name":"flac","sample_rate":"96000","bits_per_raw_sample":"24","channels":2}],"format":{"format_name":"flac"}}`

// setupCLITestEnv writes a config whose tools are shell stubs. Stubs print a
// version line for -version/-ver and canned ffprobe JSON otherwise.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "home", ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "home", ".local", "share"))

	env := &cliTestEnv{
		baseDir:    base,
		dataDir:    filepath.Join(base, "data"),
		configPath: filepath.Join(base, "mediakit.toml"),
		binDir:     filepath.Join(base, "bin"),
	}
	env.writeStub(t, "ffprobe", fmt.Sprintf("case \"$1\" in -version) echo 'ffprobe version 7.0';; *) echo '%s';; esac\n", ffprobeAudioJSON))
	env.writeStub(t, "ffmpeg", "echo 'ffmpeg version 7.0'\n")
	env.writeStub(t, "exiftool", "echo '12.76'\n")
	env.writeConfig(t, "")
	return env
}

func (e *cliTestEnv) writeStub(t *testing.T, name, body string) {
	t.Helper()
	if err := os.MkdirAll(e.binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	if err := os.WriteFile(filepath.Join(e.binDir, name), []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
}

// writeConfig writes the test configuration; extra is appended verbatim.
func (e *cliTestEnv) writeConfig(t *testing.T, extra string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[tools]
ffprobe = %q
ffmpeg = %q
exiftool = %q

[journal]
enabled = true

[logging]
level = "error"
%s`,
		e.dataDir,
		filepath.Join(e.dataDir, "logs"),
		filepath.Join(e.binDir, "ffprobe"),
		filepath.Join(e.binDir, "ffmpeg"),
		filepath.Join(e.binDir, "exiftool"),
		extra,
	)
	if err := os.WriteFile(e.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	flags := []string{}
	if env != nil {
		flags = append(flags, "--config", env.configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func writeTaggedMP3(t *testing.T, path, artist, album, title, track string) {
	t.Helper()
	testsupport.WriteMP3(t, path, testsupport.MP3Meta{Artist: artist, Album: album, Title: title, Track: track})
}
