// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked for in the standard locations.
const FileName = "confdoc.yaml"

var (
	// ErrNoHashtag is returned by Hashtag when conference.hashtag is unset.
	ErrNoHashtag = errors.New("conference.hashtag is not set")
	// ErrNoConfig is returned by Load when no file exists in the standard
	// locations and CONFDOC_CFG is unset.
	ErrNoConfig = errors.New("no config file found in standard locations")
)

// Type is a loaded YAML config addressed by dotted keys. When Namespace is
// set, lookups try "<Namespace>.<key>" before "<key>".
type Type struct {
	Source    string
	Namespace string
	Data      map[string]any
}

// Config is the process-wide config, loaded once at startup.
var Config Type

// Load reads the config file into Config. An empty file loads as empty data.
func Load() (Type, error) {
	path, err := getConfigPath()
	if err != nil {
		return Type{}, err
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}

	var data map[string]any
	if err := yaml.Unmarshal(bytes, &data); err != nil {
		return Type{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	Config = Type{
		Source: path,
		Data:   data,
	}

	return Config, nil
}

// get traverses the map using a dotted key path
func (cfg *Type) get(kspec string) (any, error) {
	candidateKeys := []string{kspec}
	if cfg.Namespace != "" {
		candidateKeys = []string{cfg.Namespace + "." + kspec, kspec}
	}

	for _, key := range candidateKeys {
		var current any = cfg.Data

		found := true
		for _, k := range strings.Split(key, ".") {
			m, ok := current.(map[string]any)
			if !ok {
				found = false
				break
			}
			if current, ok = m[k]; !ok {
				found = false
				break
			}
		}

		if found {
			return current, nil
		}
	}

	return nil, fmt.Errorf("no valid path found among: %v", candidateKeys)
}

func lookup(key string) (any, error) {
	if Config.Source == "" {
		_, _ = Load()
	}
	return Config.get(key)
}

// GetString returns the string at key, or defaultValue if the key is absent.
func GetString(key string, defaultValue ...string) (string, error) {
	val, err := lookup(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return "", err
	}

	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("value at %s is not a string", key)
	}

	return s, nil
}

// GetInt returns the integer at key. Floats are truncated.
func GetInt(key string, defaultValue ...int) (int, error) {
	val, err := lookup(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return 0, err
	}

	// YAML numbers may be unmarshaled as int/float64 depending on content.
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("value at %s is not an int", key)
	}
}

// GetFloat returns the number at key.
func GetFloat(key string, defaultValue ...float64) (float64, error) {
	val, err := lookup(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return 0, err
	}

	switch v := val.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("value at %s is not a number", key)
	}
}

// GetBool returns the boolean at key.
func GetBool(key string, defaultValue ...bool) (bool, error) {
	val, err := lookup(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return false, err
	}

	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("value at %s is not a bool", key)
	}
	return b, nil
}

// GetStringSlice returns the list at key. Every element must be a string.
func GetStringSlice(key string) ([]string, error) {
	val, err := lookup(key)
	if err != nil {
		return nil, err
	}

	list, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("value at %s is not a list", key)
	}

	out := make([]string, 0, len(list))
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("value at %s[%d] is not a string", key, i)
		}
		out = append(out, s)
	}
	return out, nil
}

// Hashtag returns conference.hashtag without its leading '#'.
func Hashtag() (string, error) {
	tag, err := GetString("conference.hashtag", "")
	if err != nil {
		return "", err
	}
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	if tag == "" {
		return "", ErrNoHashtag
	}
	return tag, nil
}

func getConfigPath() (string, error) {
	if env := os.Getenv("CONFDOC_CFG"); env != "" {
		fileInfo, err := os.Stat(env)
		if err != nil {
			return "", fmt.Errorf("config file not found: %s", env)
		}
		if fileInfo.IsDir() {
			return "", fmt.Errorf("CONFDOC_CFG points to a directory: %s", env)
		}
		return env, nil
	}

	candidates := []string{
		os.Getenv("XDG_CONFIG_HOME"),
		os.Getenv("APPDATA"),
		os.Getenv("HOME"),
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		file := filepath.Join(c, FileName)
		if fileInfo, err := os.Stat(file); err == nil && !fileInfo.IsDir() {
			log.Debugf("using config file: %s", file)
			return file, nil
		}
	}
	return "", ErrNoConfig
}
