package env

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Load reads KEY=VALUE pairs from the given dotenv files into the process
// environment. Variables already set are not overridden and missing files
// are skipped.
func Load(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// PodName example: k8ssta-counterd-6868d88fbd-bz8zv
func PodName() string {
	return os.Getenv("PODNAME")
}

// EnvName example: k8ssta
func EnvName() string {
	return os.Getenv("ENV_NAME")
}

// AppName example: harness
func AppName() string {
	return os.Getenv("APP_NAME")
}
