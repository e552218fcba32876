package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"github.com/dshills/odin75/internal/sim"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReplayCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "odinsim.toml", "[log]\nlevel = \"error\"\n")
	script := writeFile(t, dir, "typing.odin", "tap KC_A KC_B\nexpect typed KC_A KC_B\n")

	out, err := execute(t, "--config", cfg, "replay", script)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+script)
}

func TestReplayPersistsEEPROM(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "odinsim.toml", "[log]\nlevel = \"error\"\n")
	eeprom := filepath.Join(dir, "eeprom.yaml")
	save := writeFile(t, dir, "save.odin", "layer Confg on\ntap KC_Q KC_ENT\n")
	check := writeFile(t, dir, "check.odin", "expect setting base 205\n")

	_, err := execute(t, "--config", cfg, "--eeprom", eeprom, "replay", save, check)
	require.NoError(t, err)
	assert.FileExists(t, eeprom)
}

func TestReplayFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "odinsim.toml", "")
	script := writeFile(t, dir, "bad.odin", "tap KC_A\nexpect typed KC_B\n")

	_, err := execute(t, "--config", cfg, "replay", script)
	require.ErrorIs(t, err, sim.ErrExpectation)

	var se *sim.ScriptError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Line)
}

func TestMissingConfig(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "replay", "x.odin")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunNeedsTerminal(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		t.Skip("running in a terminal")
	}
	_, err := execute(t, "run")
	assert.ErrorIs(t, err, errNoTerminal)
}
