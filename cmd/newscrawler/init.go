package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/news-crawler.yml templates/env.example
var configTemplates embed.FS

// configFileName is the default sources configuration file name.
const configFileName = ".news-crawler.yml"

// envFileName is the name of the scaffolded environment template.
const envFileName = ".env.example"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a newscrawler configuration",
		Long: `Initialize creates a documented .news-crawler.yml sources file in the
current directory, and optionally an environment template next to it.

The generated sources file includes:
- A working source definition for a Chinese news portal
- Commented examples for adding further sources
- Documentation for every selector field

Examples:
  # Create .news-crawler.yml in the current directory
  newscrawler init

  # Also scaffold a .env.example environment template
  newscrawler init -e

  # Create the sources file at a specific path
  newscrawler init -o config/sources.yml

  # Force overwrite existing files
  newscrawler init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the sources configuration")
	cmd.Flags().BoolP("env", "e", false,
		"Also write a documented "+envFileName+" next to the sources file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing files")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	withEnv, err := cmd.Flags().GetBool("env")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := writeTemplate("templates/news-crawler.yml", outputPath, force); err != nil {
		return err
	}
	fmt.Printf("Created sources file: %s\n", outputPath)

	if withEnv {
		envPath := filepath.Join(filepath.Dir(outputPath), envFileName)
		if err := writeTemplate("templates/env.example", envPath, force); err != nil {
			return err
		}
		fmt.Printf("Created environment template: %s\n", envPath)
	}

	fmt.Println("\nEdit the sources file to configure news sites:")
	fmt.Println("  - Listing page URL and CSS selectors per source")
	fmt.Println("  - Optional base URL for resolving relative links")
	fmt.Println("\nSet API_KEY in the environment (or a .env file) to enable AI")
	fmt.Println("summaries; without it reports use a locally synthesized summary.")

	return nil
}

// writeTemplate copies one embedded template to path, creating parent
// directories as needed. Unless force is set, an existing file is an
// error rather than silently overwritten.
func writeTemplate(name, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s (use -f to overwrite)", path)
		}
	}

	content, err := configTemplates.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
