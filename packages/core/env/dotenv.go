package env

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultDotEnv is the file picked up from the working directory when no
// env file is given explicitly.
const DefaultDotEnv = ".env"

// LoadDotEnv parses a .env file and returns its key-value pairs without
// touching the process environment.
func LoadDotEnv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read env file %s: %w", path, err)
	}
	return vars, nil
}

// LoadAndExportDotEnv parses a .env file, returns key-value pairs, and
// exports them. Variables already present in the environment keep their
// value.
func LoadAndExportDotEnv(path string) (map[string]string, error) {
	vars, err := LoadDotEnv(path)
	if err != nil {
		return nil, err
	}

	// godotenv.Load never overrides variables that are already set
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("cannot export env file %s: %w", path, err)
	}

	return vars, nil
}

// LoadOptionalDotEnv exports path if it exists. A missing file is not an error.
func LoadOptionalDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadAndExportDotEnv(path)
}
