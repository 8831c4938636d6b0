package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"hdrview/config"
)

type flags struct {
	configPath string
	snapshot   string
	debug      bool
	hotReload  bool
	shaderDir  string

	set *pflag.FlagSet
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{}
	fs := pflag.NewFlagSet("hdrview", pflag.ContinueOnError)
	fs.StringVarP(&f.configPath, "config", "c", "hdrview.toml", "path to the TOML config file")
	fs.StringVar(&f.snapshot, "snapshot", "", "program state snapshot path (overrides assets.snapshot)")
	fs.BoolVar(&f.debug, "debug", false, "debug logging and GL error checks after every pass")
	fs.BoolVar(&f.hotReload, "hot-reload", false, "recompile shaders when files in the shader dir change")
	fs.StringVar(&f.shaderDir, "shader-dir", "", "load shaders from this directory (overrides assets.shader_dir)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	f.set = fs
	return f, nil
}

// apply overrides cfg with the flags given on the command line.
func (f *flags) apply(cfg *config.Config) {
	if f.set.Changed("snapshot") {
		cfg.Assets.Snapshot = f.snapshot
	}
	if f.set.Changed("debug") {
		cfg.Log.Debug = f.debug
	}
	if f.set.Changed("hot-reload") {
		cfg.Dev.HotReload = f.hotReload
	}
	if f.set.Changed("shader-dir") {
		cfg.Assets.ShaderDir = f.shaderDir
	}
}
