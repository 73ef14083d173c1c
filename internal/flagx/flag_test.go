package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "short flag with separate value",
			args:    []string{"-c", "conf.json", "-b", "localhost:1"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "double dash with equals",
			args:    []string{"--config=alt.json", "-b", "x"},
			allowed: []string{"c", "config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "double dash matches single dash name",
			args:    []string{"--b", "host:1", "-x", "ffmpeg"},
			allowed: []string{"-b"},
			want:    []string{"--b", "host:1"},
		},
		{
			name:    "unknown flags and positionals ignored",
			args:    []string{"-z", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag without value at end is kept",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next flag is not consumed as value",
			args:    []string{"-c", "-b", "addr"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "equals value may look like a flag",
			args:    []string{"-config=--weird.json"},
			allowed: []string{"-config"},
			want:    []string{"-config=--weird.json"},
		},
		{
			name:    "nil args",
			args:    nil,
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFromArgs(t *testing.T) {
	assert.Equal(t, "a.json", ConfigFileFromArgs([]string{"-c", "a.json", "-b", "x"}))
	assert.Equal(t, "b.json", ConfigFileFromArgs([]string{"-config=b.json"}))
	assert.Equal(t, "c.json", ConfigFileFromArgs([]string{"--config", "c.json"}))
	assert.Equal(t, "", ConfigFileFromArgs([]string{"-b", "x"}))
}

func TestJsonConfigFlags_UsesOsArgs(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"bin", "-x", "ffmpeg", "-c", "cfg.json"}
	assert.Equal(t, "cfg.json", JsonConfigFlags())
}
