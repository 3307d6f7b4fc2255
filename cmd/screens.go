package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyshelf/internal/progress"
	"github.com/ziadkadry99/storyshelf/internal/screens"
)

var checkPattern string

var screensCmd = &cobra.Command{
	Use:   "screens",
	Short: "Inspect the screen fragments",
}

var screensCheckCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Report fragments that cannot be served as written",
	Long: `Checks every screen fragment in the screens directory (screens_base, or the
given dir). Fragments whose names cannot be requested, that cannot be read,
or that the sanitizer would change are listed. Exits non-zero on findings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		base := cfg.ScreensBase
		if len(args) == 1 {
			base = args[0]
		}
		fsys, ok := screensFS(base)
		if !ok {
			return fmt.Errorf("%s is not a local directory", base)
		}

		findings, err := screens.Check(fsys, checkPattern, progress.NewReporter("Checking screens"))
		if err != nil {
			return fmt.Errorf("checking screens: %w", err)
		}
		if len(findings) == 0 {
			fmt.Println("All screens OK.")
			return nil
		}

		fmt.Printf("%-32s %-16s %s\n", "Path", "Problem", "Detail")
		fmt.Printf("%-32s %-16s %s\n", "----", "-------", "------")
		for _, f := range findings {
			fmt.Printf("%-32s %-16s %s\n", f.Path, f.Problem, f.Detail)
		}
		return fmt.Errorf("%d screen(s) need attention", len(findings))
	},
}

// screensFS opens base as a file system when it is a local directory.
func screensFS(base string) (fs.FS, bool) {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return nil, false
	}
	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		return nil, false
	}
	return os.DirFS(base), true
}

func init() {
	screensCheckCmd.Flags().StringVar(&checkPattern, "pattern", screens.DefaultPattern, "glob of fragments to check (doublestar syntax)")
	screensCmd.AddCommand(screensCheckCmd)
	rootCmd.AddCommand(screensCmd)
}
