package targets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCheckpointArtifact(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.ipynb", false},
		{"notebooks/tutorial.ipynb", false},
		{"a-checkpoint.ipynb", true},
		{"notebooks/a-checkpoint.ipynb", true},
		{".ipynb_checkpoints/a.ipynb", true},
		{"guides/.ipynb_checkpoints/a.ipynb", true},
		// The marker matches anywhere within a path element.
		{"checkpoints-overview.ipynb", true},
		// Case-sensitive: Jupyter writes the marker in lowercase.
		{"Checkpoint.ipynb", false},
		{"docs/Checkpoints/a.ipynb", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCheckpointArtifact(tt.path))
		})
	}
}
