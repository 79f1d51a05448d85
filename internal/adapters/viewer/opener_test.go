package viewer

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestCommand(t *testing.T) {
	image := filepath.Join(t.TempDir(), "a.png")
	if err := os.WriteFile(image, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		goos     string
		env      string
		location string
		wantArgs []string
		wantErr  bool
	}{
		{"linux default", "linux", "", image, []string{"xdg-open", image}, false},
		{"darwin default", "darwin", "", image, []string{"open", image}, false},
		{"windows default", "windows", "", image, []string{"cmd", "/c", "start", "", image}, false},
		{"env overrides", "linux", "feh --scale-down", image, []string{"feh", "--scale-down", image}, false},
		{"env on unknown os", "plan9", "feh", image, []string{"feh", image}, false},
		{"unknown os", "plan9", "", image, nil, true},
		{"url not checked", "linux", "", "https://example.com/a.png", []string{"xdg-open", "https://example.com/a.png"}, false},
		{"missing file", "linux", "", filepath.Join(filepath.Dir(image), "missing.png"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Opener{goos: tt.goos, getenv: func(key string) string {
				if key == EnvViewer {
					return tt.env
				}
				return ""
			}}

			cmd, err := o.Command(tt.location)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Command() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !slices.Equal(cmd.Args, tt.wantArgs) {
				t.Errorf("Command() args = %v, want %v", cmd.Args, tt.wantArgs)
			}
		})
	}
}
