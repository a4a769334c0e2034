package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// InitReader loads <environment>.env when an environment name is given,
// otherwise an optional .env in the working directory. Variables already set
// in the process environment win.
func InitReader(args []string) error {
	if len(args) > 0 && args[0] != "" {
		file := args[0] + ".env"
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("error loading %s file: %w", file, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}
