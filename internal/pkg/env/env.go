package env

import (
	"os"

	"github.com/joho/godotenv"
)

var Env map[string]string

// GetEnv resolves a key from the loaded .env file, falling back to the
// process environment (Docker, CI, t.Setenv) and finally to def.
func GetEnv(key, def string) string {
	if val, ok := Env[key]; ok {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// SetupEnvFile loads the project .env. The binaries under cmd/ run two
// levels below the repo root, so both locations are tried.
func SetupEnvFile() {
	for _, envFile := range []string{".env", "../../.env"} {
		parsed, err := godotenv.Read(envFile)
		if err == nil {
			Env = parsed
			return
		}
	}
	panic("No .env file found in any of the expected locations")
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
