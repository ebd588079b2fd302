package logger

import "testing"

func TestNewModes(t *testing.T) {
	for _, env := range []string{"dev", "DEV", "prod", ""} {
		t.Setenv(EnvVar, env)
		log := New()
		if log == nil {
			t.Fatalf("New() with %s=%q returned nil", EnvVar, env)
		}
		log.Infow("logger ready", "env", env)
		_ = log.Sync()
	}
}
