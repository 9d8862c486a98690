package config

import "github.com/joho/godotenv"

var dotEnvPaths = []string{".env", "../.env", "../../.env"}

// LoadDotEnv loads the first .env file found near the working directory.
// Variables already set in the environment win. It returns the loaded path.
func LoadDotEnv() (string, bool) {
	for _, path := range dotEnvPaths {
		if err := godotenv.Load(path); err == nil {
			return path, true
		}
	}
	return "", false
}
