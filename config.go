package main

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"github.com/xyproto/env/v2"
)

var C_SUFFIX = ".c"
var TACKY_SUFFIX = ".tacky"
var IR_SUFFIX = ".ll"

const (
	EmitTacky = "tacky"
	EmitLLVM  = "llvm"
	EmitBoth  = "both"
)

// Config is read from the environment:
//
//	CCACHE      output directory (default: the OS cache dir + /cfront)
//	CFRONT_EMIT tacky, llvm or both (default both)
//	CFRONT_RUN  interpret main after compiling each file
type Config struct {
	Cache string
	Emit  string
	Run   bool
}

func loadConfig() (Config, error) {
	cfg := Config{
		Cache: defaultCCache(),
		Emit:  env.Str("CFRONT_EMIT", EmitBoth),
		Run:   env.Bool("CFRONT_RUN"),
	}
	switch cfg.Emit {
	case EmitTacky, EmitLLVM, EmitBoth:
	default:
		return Config{}, errors.Errorf("CFRONT_EMIT must be %q, %q or %q, got %q", EmitTacky, EmitLLVM, EmitBoth, cfg.Emit)
	}
	return cfg, nil
}

func (cfg Config) emitTacky() bool { return cfg.Emit == EmitTacky || cfg.Emit == EmitBoth }
func (cfg Config) emitLLVM() bool  { return cfg.Emit == EmitLLVM || cfg.Emit == EmitBoth }

// defaultCCache returns CCACHE if set, otherwise the per-OS user cache
// location for cfront.
func defaultCCache() string {
	if dir := env.Str("CCACHE"); dir != "" {
		return dir
	}

	homeDir, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		if localAppData := env.Str("LocalAppData"); localAppData != "" {
			return filepath.Join(localAppData, "cfront")
		}
		return filepath.Join(homeDir, "AppData", "Local", "cfront")
	case "darwin":
		return filepath.Join(homeDir, "Library", "Caches", "cfront")
	}
	// Linux and others
	if xdg := env.Str("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cfront")
	}
	return filepath.Join(homeDir, ".cache", "cfront")
}
