package config

import (
	"fmt"
	"os"
)

// exampleConfig is written by Init. Kept as a literal so the generated file
// carries comments the user can edit in place.
const exampleConfig = `# doclint configuration. Every key is optional; the defaults shown here
# are what doclint uses when the file is absent.

docs:
  # Documentation root. Leave empty to auto-detect: docs/, documentation/,
  # then the current directory.
  root: ""

notebooks:
  enabled: true
  # Checkpoint artifacts (*-checkpoint.ipynb, .ipynb_checkpoints/) are
  # excluded unless this is set.
  include_checkpoints: false

linter:
  command: vale
  args: []

adapter:
  command: nbqa
  linter: vale
  flags: ["--nbqa-shell", "--nbqa-md"]

run:
  # Stop at the first failing notebook (false) or lint everything (true).
  keep_going: false
  # Per-run timeout as a Go duration string. "0s" or empty disables it.
  timeout: 0s

history:
  enabled: false
  path: .doclint/history.db

watch:
  debounce: 750ms

daemon:
  interval: 1h
  listen: ":9444"
  history: true
  nats:
    # Leave empty to disable run-summary publishing.
    url: ""
    subject: doclint.runs
`

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
