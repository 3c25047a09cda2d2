package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/petasbytes/nanocode/internal/config"
	"github.com/petasbytes/nanocode/internal/credentials"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider API keys in the OS keychain",
		Long: `Store provider API keys in the OS keychain so no environment variable
is needed. Environment variables still take precedence.`,
	}
	cmd.AddCommand(authSetCmd(), authClearCmd(), authShowCmd())
	return cmd
}

func authSetCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "set <provider>",
		Short: "Store an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := config.Lookup(args[0])
			if err != nil {
				return err
			}
			if key == "" {
				fmt.Printf("%s API key: ", pc.Name)
				if key, err = readPassword(); err != nil {
					return fmt.Errorf("read key: %w", err)
				}
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return fmt.Errorf("empty key, nothing stored")
			}
			if err := credentials.Set(pc.Name, key); err != nil {
				return fmt.Errorf("failed to store key: %w", err)
			}
			fmt.Printf("Stored %s key in the OS keychain.\n", pc.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "API key (prompted when omitted)")
	return cmd
}

func authClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := config.Lookup(args[0])
			if err != nil {
				return err
			}
			if err := credentials.Delete(pc.Name); err != nil {
				return fmt.Errorf("failed to remove key: %w", err)
			}
			fmt.Printf("Removed %s key from the OS keychain.\n", pc.Name)
			return nil
		},
	}
}

func authShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show which providers have a key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ProviderNames()
			stored := credentials.Configured(names)
			fmt.Println("Credential status:")
			for _, n := range names {
				pc, _ := config.Lookup(n)
				status := "not set"
				switch {
				case os.Getenv(pc.CredentialEnv) != "":
					status = "from " + pc.CredentialEnv
				case stored[n]:
					status = "keychain"
				}
				fmt.Printf("  %-12s %s\n", n, status)
			}
			fmt.Println("\nEnvironment variables override keychain values.")
			return nil
		},
	}
}

func readPassword() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		return string(b), err
	}
	s, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if errors.Is(err, io.EOF) && s != "" {
		err = nil
	}
	return s, err
}
