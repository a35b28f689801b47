package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderOption adjusts how LoadConfig finds its files.
type LoaderOption func(*loader)

// WithConfigFile pins the config file. LoadConfig fails if it is missing.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) { l.configFile = path }
}

// WithEnvFile pins the .env file. A missing .env file is ignored.
func WithEnvFile(path string) LoaderOption {
	return func(l *loader) { l.envFile = path }
}

// WithSearchRoot resolves the default search directories against root
// instead of the working directory.
func WithSearchRoot(root string) LoaderOption {
	return func(l *loader) { l.root = root }
}

type loader struct {
	configFile string
	envFile    string
	root       string
}

// searchDirs lists candidate directories, most specific first.
func (l *loader) searchDirs(serviceName string) []string {
	rel := []string{
		filepath.Join("cmd", serviceName),
		filepath.Join("..", "cmd", serviceName),
		filepath.Join("..", "..", "cmd", serviceName),
		"config",
		filepath.Join("..", "config"),
		".",
		"..",
	}
	if l.root == "" {
		return rel
	}
	for i, dir := range rel {
		rel[i] = filepath.Join(l.root, dir)
	}
	return rel
}

// find returns the first existing file, trying every directory for a name
// before moving on to the next name.
func (l *loader) find(serviceName string, names ...string) string {
	dirs := l.searchDirs(serviceName)
	for _, name := range names {
		for _, dir := range dirs {
			path := filepath.Join(dir, name)
			if fileExists(path) {
				return path
			}
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadConfig fills cfg from a config file, a .env file and the environment,
// in increasing order of precedence. Every key cfg declares through its
// mapstructure tags can be overridden by the upper-cased key with dots
// replaced by underscores.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.configFile != "" && !fileExists(l.configFile) {
		return fmt.Errorf("config file %s not found", l.configFile)
	}
	if l.configFile == "" {
		l.configFile = l.find(serviceName, "config.yml", "config.yaml")
	}
	if l.envFile == "" {
		l.envFile = l.find(serviceName, ".env."+serviceName, ".env")
	}

	v := viper.New()
	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", l.configFile, err)
		}
	}

	// godotenv never overrides variables already set in the environment.
	if l.envFile != "" && fileExists(l.envFile) {
		if err := godotenv.Load(l.envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", l.envFile, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys(reflect.TypeOf(cfg), "") {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config for %s: %w", serviceName, err)
	}
	return nil
}

// envKeys walks the mapstructure tags of t and returns the dotted key of
// every leaf field. Squashed structs contribute their fields at the current
// level. Maps are left to the config file.
func envKeys(t reflect.Type, prefix string) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if opts == "squash" {
			keys = append(keys, envKeys(ft, prefix)...)
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		switch ft.Kind() {
		case reflect.Map:
		case reflect.Struct:
			keys = append(keys, envKeys(ft, key)...)
		default:
			keys = append(keys, key)
		}
	}
	return keys
}
