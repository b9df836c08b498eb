package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolvePaths(t *testing.T) {
	home := func() (string, error) { return "/home/ann", nil }
	noHome := func() (string, error) { return "", errors.New("no home") }

	tests := []struct {
		name    string
		env     map[string]string
		home    func() (string, error)
		want    Paths
		wantErr bool
	}{
		{
			name: "environment overrides both",
			env:  map[string]string{EnvConfigPath: "/custom/config.toml", EnvHome: "/custom/mailorg"},
			home: noHome,
			want: Paths{ConfigPath: "/custom/config.toml", BaseDir: "/custom/mailorg", LogDir: filepath.Join("/custom/mailorg", "log")},
		},
		{
			name: "home directory defaults",
			home: home,
			want: Paths{
				ConfigPath: filepath.Join("/home/ann", ".config", "mailorg.toml"),
				BaseDir:    filepath.Join("/home/ann", ".local", "share", "mailorg"),
				LogDir:     filepath.Join("/home/ann", ".local", "share", "mailorg", "log"),
			},
		},
		{
			name: "only the base dir overridden",
			env:  map[string]string{EnvHome: "/srv/mail"},
			home: home,
			want: Paths{
				ConfigPath: filepath.Join("/home/ann", ".config", "mailorg.toml"),
				BaseDir:    "/srv/mail",
				LogDir:     filepath.Join("/srv/mail", "log"),
			},
		},
		{
			name:    "missing home directory",
			home:    noHome,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(key string) string { return tt.env[key] }
			got, err := resolvePaths(getenv, tt.home)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolvePaths() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolvePaths() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv(EnvConfigPath, "/custom/config.toml")
	t.Setenv(EnvHome, "/custom/mailorg")

	got, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths() error = %v", err)
	}
	if got.ConfigPath != "/custom/config.toml" || got.BaseDir != "/custom/mailorg" {
		t.Errorf("DefaultPaths() = %+v", got)
	}
}
