package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/doclint/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for the generated config file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	// If the user specified an output directory, place the config there
	// under the default name.
	if i.Output != "" {
		cfgPath := filepath.Join(i.Output, config.DefaultPath)
		return RunInit(cfgPath, i.Force)
	}
	return RunInit(root.Config, i.Force)
}

// RunInit writes the example configuration to configPath.
func RunInit(configPath string, force bool) error {
	fmt.Printf("Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	fmt.Println("Initialized. Edit the file and run 'doclint check'.")
	return nil
}
