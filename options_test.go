package zfinder

import (
	"os"
	"testing"
)

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadOptionsDefaults(t *testing.T) {
	unsetenv(t, "ZFINDER_LOG_LEVEL", "ZFINDER_THREADS", "ZFINDER_PROFILE")

	opts, err := LoadOptions()
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts.LogLevel != "info" || opts.Threads != 2 || opts.Profile {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}

func TestLoadOptionsFromEnv(t *testing.T) {
	t.Setenv("ZFINDER_LOG_LEVEL", "debug")
	t.Setenv("ZFINDER_THREADS", "8")
	t.Setenv("ZFINDER_PROFILE", "true")

	opts, err := LoadOptions()
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts.LogLevel != "debug" || opts.Threads != 8 || !opts.Profile {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if _, err := NewLogger(opts.LogLevel); err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
}

func TestLoadOptionsRejectsBadValues(t *testing.T) {
	for name, env := range map[string][2]string{
		"threads": {"ZFINDER_THREADS", "0"},
		"level":   {"ZFINDER_LOG_LEVEL", "loud"},
		"parse":   {"ZFINDER_THREADS", "many"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			if _, err := LoadOptions(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
