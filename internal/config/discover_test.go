package config

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestDiscoverPathsAllLevels(t *testing.T) {
	layers := DiscoverPaths(DiscoverOptions{
		ProjectPath:      "./flakeref.yaml",
		SystemConfigPath: "/etc/flakeref/flakeref.yaml",
		UserConfigPath:   "/home/user/.config/flakeref/flakeref.yaml",
	})

	if len(layers) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(layers))
	}
	for i, want := range []ConfigLevel{LevelSystem, LevelUser, LevelProject} {
		if layers[i].Level != want {
			t.Errorf("layers[%d].Level = %q, want %q", i, layers[i].Level, want)
		}
	}
}

func TestDiscoverPathsDeduplication(t *testing.T) {
	samePath, err := filepath.Abs("./flakeref.yaml")
	if err != nil {
		t.Fatal(err)
	}

	layers := DiscoverPaths(DiscoverOptions{
		ProjectPath:      samePath,
		SystemConfigPath: samePath,
		UserConfigPath:   "/other/path/flakeref.yaml",
	})

	// The project layer duplicates the system layer and is dropped.
	if len(layers) != 2 {
		t.Fatalf("expected 2 layers (deduped), got %d", len(layers))
	}
	if layers[0].Level != LevelSystem || layers[1].Level != LevelUser {
		t.Errorf("levels = %q, %q", layers[0].Level, layers[1].Level)
	}
}

func TestDiscoverPathsDefaults(t *testing.T) {
	t.Setenv(EnvSystemConfig, "")
	t.Setenv(EnvUserConfig, "")
	layers := DiscoverPaths(DiscoverOptions{ProjectPath: "./flakeref.yaml"})
	if len(layers) < 2 {
		t.Fatalf("expected at least 2 layers, got %d", len(layers))
	}
	if layers[len(layers)-1].Level != LevelProject {
		t.Errorf("last layer should be project, got %q", layers[len(layers)-1].Level)
	}
}

func TestDiscoverPathsEnvironment(t *testing.T) {
	tests := []struct {
		name       string
		opts       DiscoverOptions
		systemEnv  string
		userEnv    string
		wantSystem string
		wantUser   string
	}{
		{
			name:       "environment replaces platform paths",
			opts:       DiscoverOptions{ProjectPath: "./flakeref.yaml"},
			systemEnv:  "/srv/pins/system.yaml",
			userEnv:    "/srv/pins/user.yaml",
			wantSystem: "/srv/pins/system.yaml",
			wantUser:   "/srv/pins/user.yaml",
		},
		{
			name: "options win over environment",
			opts: DiscoverOptions{
				ProjectPath:      "./flakeref.yaml",
				SystemConfigPath: "/opt/system.yaml",
				UserConfigPath:   "/opt/user.yaml",
			},
			systemEnv:  "/srv/pins/system.yaml",
			userEnv:    "/srv/pins/user.yaml",
			wantSystem: "/opt/system.yaml",
			wantUser:   "/opt/user.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvSystemConfig, tt.systemEnv)
			t.Setenv(EnvUserConfig, tt.userEnv)

			layers := DiscoverPaths(tt.opts)
			if len(layers) != 3 {
				t.Fatalf("expected 3 layers, got %d", len(layers))
			}
			if layers[0].Path != tt.wantSystem {
				t.Errorf("system path = %q, want %q", layers[0].Path, tt.wantSystem)
			}
			if layers[1].Path != tt.wantUser {
				t.Errorf("user path = %q, want %q", layers[1].Path, tt.wantUser)
			}
			if layers[2].Level != LevelProject {
				t.Errorf("last layer = %q, want project", layers[2].Level)
			}
		})
	}
}

func TestSystemLayerPath(t *testing.T) {
	p := systemLayerPath()
	switch runtime.GOOS {
	case "linux", "darwin":
		if p != "/etc/flakeref/flakeref.yaml" {
			t.Errorf("system path = %q, want /etc/flakeref/flakeref.yaml", p)
		}
	case "windows":
		if !filepath.IsAbs(p) {
			t.Errorf("system path should be absolute on Windows, got %q", p)
		}
	}
}

func TestUserLayerPath(t *testing.T) {
	p := userLayerPath()
	if p == "" {
		t.Skip("os.UserConfigDir() not available")
	}
	if !filepath.IsAbs(p) {
		t.Errorf("user path should be absolute, got %q", p)
	}
	if filepath.Base(p) != FileName {
		t.Errorf("user path = %q", p)
	}
}

func TestEnvNoInherit(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{" true ", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"yes", false},
	}

	for _, tt := range tests {
		t.Setenv("FLAKEREF_NO_INHERIT", tt.value)
		if got := EnvNoInherit(); got != tt.want {
			t.Errorf("EnvNoInherit() with %q = %v, want %v", tt.value, got, tt.want)
		}
	}
}
