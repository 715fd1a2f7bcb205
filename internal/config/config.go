// Package config loads runconvert settings from defaults, an optional
// config file and RUNCONVERT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/LegacyCodeHQ/runconvert/convert"
	"github.com/LegacyCodeHQ/runconvert/pipeline"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "runconvert"
	// EnvPrefix prefixes environment overrides, e.g. RUNCONVERT_LOADER.
	EnvPrefix = "RUNCONVERT"
)

// Settings is the complete runconvert configuration.
type Settings struct {
	Namespace      string   `mapstructure:"namespace"`
	Loader         string   `mapstructure:"loader"`
	RuntimeAliases []string `mapstructure:"runtime_aliases"`
	TextPlugin     string   `mapstructure:"text_plugin"`

	Extensions []string `mapstructure:"extensions"`
	SkipDirs   []string `mapstructure:"skip_dirs"`

	// LoaderScript is a file whose content is prepended to converted files
	// matching LoaderTarget.
	LoaderScript string `mapstructure:"loader_script"`
	LoaderTarget string `mapstructure:"loader_target"`

	Bootstrap BootstrapSettings `mapstructure:"bootstrap"`
}

// BootstrapSettings describe the single-file bootstrap assembled after a run.
type BootstrapSettings struct {
	// Name is the output path relative to the destination root. Empty
	// disables the bootstrap.
	Name      string   `mapstructure:"name"`
	Header    string   `mapstructure:"header"`
	Fragments []string `mapstructure:"fragments"`
}

// Default returns the settings for converting a Dojo release to run().
func Default() Settings {
	syntax := convert.DefaultSyntax()
	return Settings{
		Namespace:      syntax.Namespace,
		Loader:         syntax.Loader,
		RuntimeAliases: syntax.RuntimeAliases,
		TextPlugin:     syntax.TextPlugin,
		Extensions:     []string{".js"},
		SkipDirs:       []string{"nls"},
		LoaderTarget:   `/dojo\.js(\.uncompressed\.js)?$`,
		Bootstrap: BootstrapSettings{
			Name:   "dojo.js",
			Header: `run.baseUrlRegExp = /dojo(\.xd)?\.js(\W|$)/i;`,
			Fragments: []string{
				"dojo/_base/_loader/bootstrap.js",
				"dojo/_base/_loader/loader.js",
				"dojo/_base/_loader/hostenv_browser.js",
			},
		},
	}
}

// Load reads settings. An empty path loads defaults and environment
// overrides only; a non-empty path must point to a readable config file.
func Load(path string) (Settings, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("namespace", defaults.Namespace)
	v.SetDefault("loader", defaults.Loader)
	v.SetDefault("runtime_aliases", defaults.RuntimeAliases)
	v.SetDefault("text_plugin", defaults.TextPlugin)
	v.SetDefault("extensions", defaults.Extensions)
	v.SetDefault("skip_dirs", defaults.SkipDirs)
	v.SetDefault("loader_script", defaults.LoaderScript)
	v.SetDefault("loader_target", defaults.LoaderTarget)
	v.SetDefault("bootstrap.name", defaults.Bootstrap.Name)
	v.SetDefault("bootstrap.header", defaults.Bootstrap.Header)
	v.SetDefault("bootstrap.fragments", defaults.Bootstrap.Fragments)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Settings{}, fmt.Errorf("config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports every problem with s.
func (s Settings) Validate() error {
	var errs []error
	if err := s.Syntax().Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(s.Extensions) == 0 {
		errs = append(errs, errors.New("at least one extension is required"))
	}
	for _, ext := range s.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("extension %q must start with a dot", ext))
		}
	}
	if s.LoaderTarget != "" {
		if _, err := regexp.Compile(s.LoaderTarget); err != nil {
			errs = append(errs, fmt.Errorf("invalid loader_target: %w", err))
		}
	}
	if s.Bootstrap.Name != "" && len(s.Bootstrap.Fragments) == 0 {
		errs = append(errs, errors.New("bootstrap.fragments cannot be empty when bootstrap.name is set"))
	}
	return errors.Join(errs...)
}

// Syntax returns the converter syntax described by s.
func (s Settings) Syntax() convert.Syntax {
	return convert.Syntax{
		Namespace:      s.Namespace,
		Loader:         s.Loader,
		RuntimeAliases: s.RuntimeAliases,
		TextPlugin:     s.TextPlugin,
	}
}

// ConverterOptions reads the loader script, if any, and returns the options
// for convert.New.
func (s Settings) ConverterOptions() (convert.Options, error) {
	opts := convert.Options{Syntax: s.Syntax()}
	if s.LoaderScript == "" {
		return opts, nil
	}

	script, err := os.ReadFile(s.LoaderScript)
	if err != nil {
		return convert.Options{}, fmt.Errorf("failed to read loader script: %w", err)
	}
	opts.LoaderScript = script
	if s.LoaderTarget != "" {
		if opts.LoaderTarget, err = regexp.Compile(s.LoaderTarget); err != nil {
			return convert.Options{}, fmt.Errorf("invalid loader_target: %w", err)
		}
	}
	return opts, nil
}

// PipelineOptions returns the file pipeline options described by s.
func (s Settings) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Extensions: s.Extensions,
		SkipDirs:   s.SkipDirs,
		Bootstrap: pipeline.Bootstrap{
			Name:      s.Bootstrap.Name,
			Header:    s.Bootstrap.Header,
			Fragments: s.Bootstrap.Fragments,
			Loader:    s.Loader,
			Aliases:   s.RuntimeAliases,
		},
	}
}
