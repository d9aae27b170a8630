package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// GenerateCompletions writes bash, zsh, fish and powershell completion scripts of cmd into dir
func GenerateCompletions(cmd *cobra.Command, dir string) error {
	name := cmd.Name()

	generators := []struct {
		file     string
		generate func(string) error
	}{
		{name + ".bash", cmd.GenBashCompletionFile},
		{"_" + name, cmd.GenZshCompletionFile},
		{name + ".fish", func(path string) error { return cmd.GenFishCompletionFile(path, true) }},
		{"_" + name + ".ps1", cmd.GenPowerShellCompletionFile},
	}

	for _, g := range generators {
		path := filepath.Join(dir, g.file)
		if err := g.generate(path); err != nil {
			return fmt.Errorf("failed to generate %s: %w", path, err)
		}
	}
	return nil
}
