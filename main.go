package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/seedlock/cmd"
	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/mnemonic"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create":
		runCreate(ctx, os.Args[2:])
	case "import":
		runImport(ctx, os.Args[2:])
	case "unlock":
		runUnlock(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "shell":
		runShell(ctx, os.Args[2:])
	case "balance":
		runBalance(ctx, os.Args[2:])
	case "send":
		runSend(ctx, os.Args[2:])
	case "export":
		runExport(ctx, os.Args[2:])
	case "passwd":
		runPasswd(ctx, os.Args[2:])
	case "disconnect":
		runDisconnect(ctx, os.Args[2:])
	case "check-password":
		cmd.CheckPassword()
	case "suggest":
		runSuggest(os.Args[2:])
	case "serve-registry":
		runServeRegistry(ctx, os.Args[2:])
	case "completion":
		runCompletion(os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// loadConfig parses args on fs together with the shared config flags.
func loadConfig(fs *flag.FlagSet, args []string) *config.Config {
	cfg, err := config.Load(fs, args, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

func runCreate(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	words := fs.Int("words", mnemonic.DefaultWordCount, "Number of recovery phrase words (12, 15, 18 or 24)")
	cfg := loadConfig(fs, args)

	cmd.Create(ctx, cfg, *words)
}

func runImport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	keystorePath := fs.String("keystore", "", "Import from a keystore v3 JSON file")
	cfg := loadConfig(fs, args)

	cmd.Import(ctx, cfg, *keystorePath)
}

func runUnlock(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("unlock", flag.ExitOnError)
	cfg := loadConfig(fs, args)

	cmd.Unlock(ctx, cfg)
}

func runStatus(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	cfg := loadConfig(fs, args)

	cmd.Status(ctx, cfg)
}

func runShell(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	cfg := loadConfig(fs, args)

	cmd.Shell(ctx, cfg)
}

func runBalance(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	cfg := loadConfig(fs, args)

	cmd.Balance(ctx, cfg)
}

func runSend(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Send without confirmation")
	cfg := loadConfig(fs, args)

	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: seedlock send [flags] <address> <amount>")
		os.Exit(1)
	}
	cmd.Transfer(ctx, cfg, fs.Arg(0), fs.Arg(1), *yes)
}

func runExport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "Output file ('-' for stdout)")
	cfg := loadConfig(fs, args)

	cmd.ExportKeystore(ctx, cfg, *out)
}

func runPasswd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	cfg := loadConfig(fs, args)

	cmd.ChangePassword(ctx, cfg)
}

func runDisconnect(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("disconnect", flag.ExitOnError)
	force := fs.Bool("force", false, "Disconnect without confirmation")
	cfg := loadConfig(fs, args)

	cmd.Disconnect(ctx, cfg, *force)
}

func runSuggest(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: seedlock suggest <prefix>")
		os.Exit(1)
	}
	cmd.Suggest(args[0])
}

func runServeRegistry(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("serve-registry", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:8080", "Address to listen on")
	cfg := loadConfig(fs, args)

	cmd.ServeRegistry(ctx, cfg, *listen)
}

func runCompletion(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: seedlock completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("seedlock - Self-custody wallet with a password-locked recovery phrase")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  seedlock <command> [flags] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  create          Create a new wallet and back up its recovery phrase")
	fmt.Println("  import          Import a wallet from a recovery phrase")
	fmt.Println("  unlock          Check the password and show the wallet address")
	fmt.Println("  status          Show wallet state")
	fmt.Println("  shell           Interactive session with auto-lock")
	fmt.Println("  balance         Show token balance")
	fmt.Println("  send            Send tokens")
	fmt.Println("  export          Export the key as a keystore v3 file")
	fmt.Println("  passwd          Change the wallet password")
	fmt.Println("  disconnect      Delete the wallet from this device")
	fmt.Println("  check-password  Check a password against the policy")
	fmt.Println("  suggest         Complete a recovery phrase word")
	fmt.Println("  serve-registry  Run the user registry HTTP API")
	fmt.Println("  completion      Generate shell completions")
	fmt.Println("  help            Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  seedlock create                 # New 12-word wallet")
	fmt.Println("  seedlock import                 # Restore from a recovery phrase")
	fmt.Println("  seedlock import -keystore k.json  # Restore from a keystore file")
	fmt.Println("  seedlock shell                  # Unlock once, run several commands")
	fmt.Println("  seedlock status                 # Check wallet state")
	fmt.Println()
	fmt.Println("Every wallet command accepts the shared flags shown by 'seedlock help flags'.")
	fmt.Println("Use 'seedlock help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "create":
		fmt.Println("seedlock create [-words N]")
		fmt.Println()
		fmt.Println("Generates a new recovery phrase and shows it once.")
		fmt.Println("You are then asked for three of its words to confirm the backup,")
		fmt.Println("and for a password that encrypts the wallet on this device.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -words N   Phrase length: 12, 15, 18 or 24 (default 12)")
	case "import":
		fmt.Println("seedlock import [-keystore file]")
		fmt.Println()
		fmt.Println("Restores a wallet from an existing recovery phrase.")
		fmt.Println("The phrase is read without echo, then a new password is requested.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -keystore file   Import the key from a keystore v3 JSON file instead")
	case "unlock":
		fmt.Println("seedlock unlock")
		fmt.Println()
		fmt.Println("Checks the wallet password and prints the address.")
		fmt.Println("The password is read from SEEDLOCK_PASSWORD if set.")
	case "status":
		fmt.Println("seedlock status")
		fmt.Println()
		fmt.Println("Shows whether a wallet exists, its address and when it was created.")
		fmt.Println("Does not require a password.")
	case "shell":
		fmt.Println("seedlock shell")
		fmt.Println()
		fmt.Println("Starts an interactive session. The wallet stays unlocked in memory")
		fmt.Println("between commands and locks itself after -lock-timeout of inactivity.")
		fmt.Println("Type 'help' inside the shell for its commands.")
	case "balance":
		fmt.Println("seedlock balance")
		fmt.Println()
		fmt.Println("Shows the token balance. Requires -rpc-url and -token.")
	case "send":
		fmt.Println("seedlock send [-yes] <address> <amount>")
		fmt.Println()
		fmt.Println("Sends tokens to address. Requires -rpc-url and -token.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -yes   Send without confirmation")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  seedlock send 0x9858EfFD232B4033E47d90003D41EC34EcaEda94 12.5")
	case "export":
		fmt.Println("seedlock export [-o file]")
		fmt.Println()
		fmt.Println("Writes the wallet key as a keystore v3 JSON file encrypted")
		fmt.Println("under the wallet password. Use '-o -' to print it.")
	case "passwd":
		fmt.Println("seedlock passwd")
		fmt.Println()
		fmt.Println("Changes the wallet password. Requires the current password.")
	case "disconnect":
		fmt.Println("seedlock disconnect [-force]")
		fmt.Println()
		fmt.Println("Deletes the encrypted wallet from this device.")
		fmt.Println("The wallet can only be restored from its recovery phrase.")
	case "check-password":
		fmt.Println("seedlock check-password")
		fmt.Println()
		fmt.Println("Shows which password rules a candidate satisfies.")
	case "suggest":
		fmt.Println("seedlock suggest <prefix>")
		fmt.Println()
		fmt.Println("Lists recovery phrase words starting with prefix.")
	case "serve-registry":
		fmt.Println("seedlock serve-registry [-listen addr]")
		fmt.Println()
		fmt.Println("Serves POST /api/wallet over the local SQLite user registry.")
	case "completion":
		fmt.Println("seedlock completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(seedlock completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(seedlock completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  seedlock completion fish | source")
	case "flags":
		fs := flag.NewFlagSet("seedlock", flag.ContinueOnError)
		fs.SetOutput(os.Stdout)
		if _, err := config.Load(fs, nil, func(string) string { return "" }); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return
		}
		fmt.Println("Shared flags (also settable as SEEDLOCK_* environment variables):")
		fs.PrintDefaults()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
