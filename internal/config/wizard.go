package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/storyshelf/internal/screens"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to storyshelf! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// Detect a local screens directory.
	if info, err := os.Stat(cfg.ScreensBase); err == nil && info.IsDir() {
		fmt.Printf("Found screens directory: %s\n\n", cfg.ScreensBase)
	}

	// 1. Screens location.
	screensPrompt := promptui.Prompt{
		Label:    "Screens directory or base URL",
		Default:  cfg.ScreensBase,
		Validate: required("screens location"),
	}
	base, err := screensPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("screens location: %w", err)
	}
	cfg.ScreensBase = strings.TrimSpace(base)

	// 2. Home page.
	pagePrompt := promptui.Prompt{
		Label:   "Default page",
		Default: cfg.DefaultPage,
		Validate: func(s string) error {
			if !screens.ValidID(s) {
				return errors.New("use letters, digits, '-' or '_'")
			}
			return nil
		},
	}
	cfg.DefaultPage, err = pagePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("default page: %w", err)
	}

	// 3. Fragment cache.
	cachePrompt := promptui.Select{
		Label: "Cache screen fragments",
		Items: []string{
			"yes — fetch each screen once",
			"no  — refetch on every navigation (useful while editing screens)",
		},
	}
	cacheIdx, _, err := cachePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("cache selection: %w", err)
	}
	cfg.CacheEnabled = cacheIdx == 0

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return errors.New("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 5. Backend project URL.
	urlPrompt := promptui.Prompt{
		Label:   "Supabase project URL (leave blank to connect later)",
		Default: os.Getenv("SUPABASE_URL"),
		Validate: func(s string) error {
			if s == "" {
				return nil
			}
			u, err := url.Parse(s)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return errors.New("enter an http(s) URL")
			}
			return nil
		},
	}
	cfg.Backend.URL, err = urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}

	if cfg.Backend.URL != "" {
		fmt.Println("\nNote: keep the anon key out of the config file with")
		fmt.Println("`storyshelf auth backend` or SUPABASE_ANON_KEY in your environment.")
		if cfg.Backend.Insecure() {
			fmt.Println("Warning: the backend URL is not HTTPS; passwords would travel in clear text.")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// required returns a prompt validator rejecting blank input.
func required(what string) promptui.ValidateFunc {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}
