// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/confdoc/internal/meta"
)

const bashCompletionScript = `# bash completion for confdoc
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_confdoc()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "diff fetch group list show completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local store="--backend --cache-dir --hashtag --offline"
    local common="$store --attrs -a --color -c --filter -f --ids --output -o --progress --sort -s --titles -t"

    case "$cmd" in
        fetch|list)
            local opts="$common"
            ;;
        group)
            local opts="$common --date -d --key -k --posts"
            ;;
        show)
            local opts="$store --author --output -o"
            ;;
        diff)
            local opts="$store --author --color -c --format --ignore"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --backend)
            COMPREPLY=( $(compgen -W "file s3" -- "$cur") )
            return 0
            ;;
        --format)
            COMPREPLY=( $(compgen -W "ascii delta" -- "$cur") )
            return 0
            ;;
        --ids|--cache-dir)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _confdoc confdoc
`

const zshCompletionScript = `#compdef confdoc

_confdoc() {
  local -a cmds
  cmds=(
    'diff:compare two cached records'
    'fetch:fill the cache for a list of post ids'
    'group:group posts by date or field'
    'list:tabulate posts'
    'show:print one cached record'
    'completion:generate shell completion script'
  )

  local -a store
  store=(
  '--backend[cache backend]:backend:(file s3)'
  '--cache-dir[base directory of the file cache]:dir:_directories'
  '--hashtag[conference hashtag]:hashtag'
  '--offline[only use cached records]'
  )

  local -a common
  common=(
  $store
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '--ids[file of post ids]:file:_files'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '--progress[draw a progress bar]'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'confdoc commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    fetch|list)
      _arguments -C $common '*:id'
      ;;
    group)
      _arguments -C \
        $common \
        '(-d --date)'{-d,--date}'[time layout]:layout' \
        '(-k --key)'{-k,--key}'[field path]:path' \
        '--posts[list posts of each group]' \
        '*:id'
      ;;
    show)
      _arguments -C \
        $store \
        '--author[id names a user]' \
        '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)' \
        '1:id'
      ;;
    diff)
      _arguments -C \
        $store \
        '--author[ids name users]' \
        '(-c --color)'{-c,--color}'[enable colored text]' \
        '--format[diff format]:format:(ascii delta)' \
        '--ignore[paths to ignore]:paths' \
        '1:id' '2:id'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _confdoc confdoc
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	shell := cmd.Args().First()
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(m.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(m.Stdout, zshCompletionScript)
	default:
		fmt.Fprintln(m.Stderr, "usage: confdoc completion [bash|zsh]")
	}
	return nil
}

func CompletionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "confdoc completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
