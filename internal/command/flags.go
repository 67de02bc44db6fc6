// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/confdoc/internal/output"
)

// NewStoreFlags returns the flags that locate the cache and decide whether
// misses may be fetched. ns is the command name and namespaces config lookups;
// path is the config file.
func NewStoreFlags(ns string, path string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "backend",
			Usage: "cache backend, file or s3",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("CONFDOC_CACHE_BACKEND"),
				yaml.YAML("cache.backend", altsrc.StringSourcer(path)),
			),
			Value: "file",
			Validator: func(value string) error {
				return FlagValidators(value, BackendValidator)
			},
		},
		&cli.StringFlag{
			Name:  "cache-dir",
			Usage: "base directory of the file cache",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("CONFDOC_CACHE_DIR"),
				yaml.YAML("cache.dir", altsrc.StringSourcer(path)),
			),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:  "hashtag",
			Usage: "conference hashtag that names the cache",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("CONFDOC_HASHTAG"),
				yaml.YAML("conference.hashtag", altsrc.StringSourcer(path)),
			),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolFlag{
			Name:  "offline",
			Usage: "only use cached records, never call the API",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("CONFDOC_OFFLINE"),
				yaml.YAML(ns+"."+"offline", altsrc.StringSourcer(path)),
				yaml.YAML("offline", altsrc.StringSourcer(path)),
			),
			Value: false,
		},
	}

	return
}

// NewGlobalFlags returns the flags shared by the commands that build a
// collection.
func NewGlobalFlags(ns string, path string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"attrs", altsrc.StringSourcer(path)),
			),
		},
		NewColorFlag(ns, path),
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:  "ids",
			Usage: "file of post ids, one per line; - reads stdin",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		NewOutputFlag(ns, path),
		&cli.BoolWithInverseFlag{
			Name:  "progress",
			Usage: "draw a progress bar on stderr while loading",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"progress", altsrc.StringSourcer(path)),
				yaml.YAML("progress", altsrc.StringSourcer(path)),
			),
			Value: true,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"sort", altsrc.StringSourcer(path)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"titles", altsrc.StringSourcer(path)),
				yaml.YAML("titles", altsrc.StringSourcer(path)),
			),
			Value: false,
		},
	}

	return
}

func NewColorFlag(ns string, path string) *cli.BoolWithInverseFlag {
	return &cli.BoolWithInverseFlag{
		Name:    "color",
		Aliases: []string{"c"},
		Usage:   "enable colored text output",
		Sources: cli.NewValueSourceChain(
			yaml.YAML(ns+"."+"color", altsrc.StringSourcer(path)),
			yaml.YAML("color", altsrc.StringSourcer(path)),
		),
		Value: false,
	}
}

func NewOutputFlag(ns string, path string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format",
		Sources: cli.NewValueSourceChain(
			yaml.YAML(ns+"."+"output", altsrc.StringSourcer(path)),
			yaml.YAML("output", altsrc.StringSourcer(path)),
		),
		Value: output.FormatText,
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
