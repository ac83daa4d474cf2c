package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"igcrawler/pkg/auth"
)

// authCmd manages the stored OAuth app credentials
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored OAuth app credentials",
	Long: `Store the OAuth application's client id, secret and redirect URI
in the system keychain (or an encrypted file when no keychain is
available), so commands run without environment variables.`,
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store OAuth app credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		clientID, err := promptLine(reader, "Client ID: ")
		if err != nil {
			return err
		}
		clientSecret, err := promptSecret("Client secret: ")
		if err != nil {
			return err
		}
		redirectURI, err := promptLine(reader, "Redirect URI: ")
		if err != nil {
			return err
		}
		shortToken, err := promptSecret("Short-lived token (optional): ")
		if err != nil {
			return err
		}

		manager, err := auth.NewManager()
		if err != nil {
			return err
		}
		if err := manager.Store(&auth.Credentials{
			ClientID:        clientID,
			ClientSecret:    clientSecret,
			RedirectURI:     redirectURI,
			ShortLivedToken: shortToken,
		}); err != nil {
			return err
		}
		fmt.Println("credentials stored")
		return nil
	},
}

var authShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored credentials (secret redacted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := auth.NewManager()
		if err != nil {
			return err
		}
		creds, err := manager.Retrieve()
		if err != nil {
			return err
		}
		fmt.Printf("Client ID:     %s\n", creds.ClientID)
		fmt.Printf("Client secret: %s\n", redact(creds.ClientSecret))
		fmt.Printf("Redirect URI:  %s\n", creds.RedirectURI)
		if creds.ShortLivedToken != "" {
			fmt.Printf("Short token:   %s\n", redact(creds.ShortLivedToken))
		}
		fmt.Printf("Last modified: %s\n", creds.LastModified.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var authDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := auth.NewManager()
		if err != nil {
			return err
		}
		if err := manager.Delete(); err != nil {
			return err
		}
		fmt.Println("credentials deleted")
		return nil
	},
}

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

func redact(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authShowCmd)
	authCmd.AddCommand(authDeleteCmd)
}
