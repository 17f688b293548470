package targets

import (
	"path/filepath"
	"strings"
)

// checkpointMarker is the substring Jupyter uses for autosave artifacts,
// both in .ipynb_checkpoints directories and in *-checkpoint.ipynb copies.
const checkpointMarker = "checkpoint"

// IsCheckpointArtifact reports whether any element of path carries the
// checkpoint marker. The match is case-sensitive; Jupyter writes the marker
// in lowercase.
func IsCheckpointArtifact(path string) bool {
	for _, elem := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.Contains(elem, checkpointMarker) {
			return true
		}
	}
	return false
}
