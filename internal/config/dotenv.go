package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads dotenv files before the YAML config is read, so the
// env overrides in applyEnvOverrides see them. godotenv.Load never
// overwrites variables that are already set, which keeps the precedence
// OS environment > .env.local > .env. Returns the files actually found.
func LoadDotEnv() []string {
	candidates := []string{".env.local", ".env"}
	var found []string
	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			found = append(found, name)
		}
	}
	if len(found) > 0 {
		_ = godotenv.Load(found...)
	}
	return found
}
