// Command shardvault drives the library from the shell: split a secret into
// shares, combine shares back, and protect/reveal a master key under a
// password.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/skralg/shardvault"
	"github.com/skralg/shardvault/pkg/shamir"
)

const usage = `Usage:
  %[1]s split -n <total> -k <threshold> [-enc utf-8|hex|base64] <secret>
  %[1]s combine [-enc utf-8|hex|base64] <share> <share> [<share>...]
  %[1]s protect -password <pw> <master-key-hex>
  %[1]s reveal -password <pw>

Examples:
  %[1]s split -n 5 -k 3 "hello world"     # prints 5 share strings
  %[1]s combine 8001... 8003... 8005...   # prints the recovered secret
  %[1]s protect -password pw1 deadbeef    # stores the protected key
  %[1]s reveal -password pw1              # prints the key as hex

Note:
  The vault keeps its records in ~/.shardvault. If that store cannot be
  opened, protect/reveal still work but only for the current process.
`

func main() {
	progName := filepath.Base(os.Args[0])

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, progName)
		os.Exit(1)
	}

	vault, err := initVault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing vault: %v\n", err)
		os.Exit(1)
	}
	defer vault.Close()

	switch os.Args[1] {
	case "split":
		err = runSplit(vault, os.Args[2:])
	case "combine":
		err = runCombine(vault, os.Args[2:])
	case "protect":
		err = runProtect(vault, os.Args[2:])
	case "reveal":
		err = runReveal(vault, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, usage, progName)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func initVault() (*shardvault.Vault, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine user home directory: %w", err)
	}

	vaultDir := filepath.Join(homeDir, ".shardvault")
	if err := os.MkdirAll(vaultDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create vault directory: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return shardvault.Init(&shardvault.Config{
		Paths:  []string{vaultDir},
		Logger: logger,
	})
}

func runSplit(vault *shardvault.Vault, args []string) error {
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	total := fs.Int("n", 5, "total number of shares")
	threshold := fs.Int("k", 3, "shares required to reconstruct")
	enc := fs.String("enc", string(shamir.EncodingUTF8), "secret text encoding")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("split takes exactly one secret argument")
	}

	shares, err := vault.SplitSecret(fs.Arg(0), shamir.Encoding(*enc), *total, *threshold)
	if err != nil {
		return err
	}
	for _, share := range shares {
		fmt.Println(share.SerializedValue)
	}
	return nil
}

func runCombine(vault *shardvault.Vault, args []string) error {
	fs := flag.NewFlagSet("combine", flag.ExitOnError)
	enc := fs.String("enc", string(shamir.EncodingUTF8), "secret text encoding")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("combine needs at least two share strings")
	}

	secret, err := vault.CombineSerialized(fs.Args(), shamir.Encoding(*enc))
	if err != nil {
		return err
	}
	fmt.Println(secret)
	return nil
}

func runProtect(vault *shardvault.Vault, args []string) error {
	fs := flag.NewFlagSet("protect", flag.ExitOnError)
	password := fs.String("password", "", "password protecting the master key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("protect takes exactly one hex-encoded master key")
	}

	masterKey, err := hex.DecodeString(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("master key must be hex: %w", err)
	}
	if err := vault.Protect(masterKey, *password); err != nil {
		return err
	}
	if !vault.Durable() {
		fmt.Fprintln(os.Stderr, "Warning: durable store unavailable, key protected for this process only")
	}
	fmt.Println("Master key protected")
	return nil
}

func runReveal(vault *shardvault.Vault, args []string) error {
	fs := flag.NewFlagSet("reveal", flag.ExitOnError)
	password := fs.String("password", "", "password the master key was protected with")
	if err := fs.Parse(args); err != nil {
		return err
	}

	masterKey, err := vault.Reveal(*password)
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(masterKey))
	return nil
}
