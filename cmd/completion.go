package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_seedlock() {
    local cur prev words cword
    _init_completion || return

    local commands="create import unlock status shell balance send export passwd disconnect check-password suggest serve-registry help completion"
    local common="-config -data-dir -profile -store -kdf -lock-timeout -registry -registry-url -rpc-url -token -token-decimals -log-level -unlock-rate"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        create)
            if [[ "$prev" == "-words" ]]; then
                COMPREPLY=($(compgen -W "12 15 18 24" -- "$cur"))
            else
                COMPREPLY=($(compgen -W "-words $common" -- "$cur"))
            fi
            ;;
        import)
            if [[ "$prev" == "-keystore" ]]; then
                _filedir
            else
                COMPREPLY=($(compgen -W "-keystore $common" -- "$cur"))
            fi
            ;;
        send)
            COMPREPLY=($(compgen -W "-yes $common" -- "$cur"))
            ;;
        export)
            if [[ "$prev" == "-o" ]]; then
                _filedir
            else
                COMPREPLY=($(compgen -W "-o $common" -- "$cur"))
            fi
            ;;
        disconnect)
            COMPREPLY=($(compgen -W "-force $common" -- "$cur"))
            ;;
        serve-registry)
            COMPREPLY=($(compgen -W "-listen $common" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
        check-password|suggest)
            ;;
        *)
            COMPREPLY=($(compgen -W "$common" -- "$cur"))
            ;;
    esac
}

complete -F _seedlock seedlock
`

const zshCompletion = `#compdef seedlock

_seedlock() {
    local -a commands
    commands=(
        'create:Create a new wallet'
        'import:Import a wallet from a recovery phrase'
        'unlock:Check the password and show the address'
        'status:Show wallet state'
        'shell:Interactive wallet session'
        'balance:Show token balance'
        'send:Send tokens'
        'export:Export a keystore v3 file'
        'passwd:Change wallet password'
        'disconnect:Delete the wallet from this device'
        'check-password:Check a password against the policy'
        'suggest:Complete a recovery phrase word'
        'serve-registry:Run the user registry HTTP API'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'seedlock commands' commands
            ;;
        args)
            case "${words[2]}" in
                create)
                    _arguments '-words[Number of words]:count:(12 15 18 24)'
                    ;;
                import)
                    _arguments '-keystore[Keystore v3 file]:file:_files'
                    ;;
                send)
                    _arguments '-yes[Send without confirmation]'
                    ;;
                export)
                    _arguments '-o[Output file]:file:_files'
                    ;;
                disconnect)
                    _arguments '-force[Disconnect without confirmation]'
                    ;;
                serve-registry)
                    _arguments '-listen[Listen address]:address:'
                    ;;
                help)
                    _describe -t commands 'seedlock commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_seedlock "$@"
`

const fishCompletion = `# seedlock fish completions

set -l commands create import unlock status shell balance send export passwd disconnect check-password suggest serve-registry help completion

complete -c seedlock -f

# Commands
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a create -d 'Create a new wallet'
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a import -d 'Import from recovery phrase'
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a unlock -d 'Check password'
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show wallet state'
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a shell -d 'Interactive session'
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a balance -d 'Show token balance'
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a send -d 'Send tokens'
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a export -d 'Export keystore'
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a passwd -d 'Change password'
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a disconnect -d 'Delete wallet'
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a check-password -d 'Check password policy'
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a suggest -d 'Complete a phrase word'
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a serve-registry -d 'Run registry API'
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c seedlock -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# command flags
complete -c seedlock -n "__fish_seen_subcommand_from create" -o words -x -a "12 15 18 24" -d 'Number of words'
complete -c seedlock -n "__fish_seen_subcommand_from import" -o keystore -r -F -d 'Keystore v3 file'
complete -c seedlock -n "__fish_seen_subcommand_from send" -o yes -d 'Send without confirmation'
complete -c seedlock -n "__fish_seen_subcommand_from export" -o o -r -F -d 'Output file'
complete -c seedlock -n "__fish_seen_subcommand_from disconnect" -o force -d 'Disconnect without confirmation'
complete -c seedlock -n "__fish_seen_subcommand_from serve-registry" -o listen -x -d 'Listen address'

# help completions
complete -c seedlock -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c seedlock -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
