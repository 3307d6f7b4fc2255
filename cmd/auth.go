package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyshelf/internal/auth"
	"github.com/ziadkadry99/storyshelf/internal/config"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Supabase backend credentials",
	Long: `Store and manage the Supabase project URL and anon key.

Credentials are stored in ~/.storyshelf/credentials.json and used
as a fallback when the config file and environment do not set them.`,
}

var authBackendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Store the Supabase project URL and anon key",
	RunE:  runAuthBackend,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the backend credentials come from",
	Run:   runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored backend credentials",
	RunE:  runAuthLogout,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authBackendCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}

func runAuthBackend(cmd *cobra.Command, args []string) error {
	path, err := auth.CredentialPath()
	if err != nil {
		return err
	}
	creds, err := auth.LoadCredentials(path)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	urlPrompt := promptui.Prompt{
		Label:   "Supabase project URL",
		Default: creds.URL,
		Validate: func(s string) error {
			u, err := url.Parse(s)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return errors.New("enter an http(s) URL")
			}
			return nil
		},
	}
	creds.URL, err = urlPrompt.Run()
	if err != nil {
		return fmt.Errorf("project url: %w", err)
	}

	keyPrompt := promptui.Prompt{
		Label: "Anon key",
		Mask:  '*',
		Validate: func(s string) error {
			if s == "" {
				return errors.New("anon key is required")
			}
			return nil
		},
	}
	creds.AnonKey, err = keyPrompt.Run()
	if err != nil {
		return fmt.Errorf("anon key: %w", err)
	}

	if (config.BackendConfig{URL: creds.URL}).Insecure() {
		fmt.Println("Warning: the project URL is not HTTPS; passwords would travel in clear text.")
	}

	if err := auth.SaveCredentials(path, creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	fmt.Println("Backend credentials stored successfully!")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) {
	path, err := auth.CredentialPath()
	exitOnError(err)
	creds, err := auth.LoadCredentials(path)
	exitOnError(err)
	cfg, err := config.Load(cfgFile)
	exitOnError(err)

	fmt.Printf("Credentials file: %s\n\n", path)
	fmt.Println("Setting      Source")
	fmt.Println("-------      ------")
	fmt.Printf("url          %s\n", source(cfg.Backend.URL, "SUPABASE_URL", creds.URL))
	fmt.Printf("anon key     %s\n", source(cfg.Backend.AnonKey, "SUPABASE_ANON_KEY", creds.AnonKey))
}

// source names where a backend setting comes from.
func source(configured, envVar, stored string) string {
	switch {
	case os.Getenv(envVar) != "":
		return "configured (env var)"
	case configured != "":
		return "configured (config file)"
	case stored != "":
		return "configured (stored)"
	default:
		return "not configured"
	}
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	path, err := auth.CredentialPath()
	if err != nil {
		return err
	}
	if err := auth.SaveCredentials(path, &auth.BackendCredentials{}); err != nil {
		return err
	}
	fmt.Println("Stored backend credentials removed.")
	return nil
}
