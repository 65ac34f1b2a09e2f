package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read from the working directory on startup.
const DefaultEnvFile = ".env"

// LoadEnvFile copies the variables of the dotenv file at path into the
// process environment. Variables that are already set win. A missing file
// is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &ExitError{Code: 2, Message: fmt.Sprintf("cannot read %s: %v", path, err)}
	}
	if err := godotenv.Load(path); err != nil {
		return &ExitError{Code: 2, Message: fmt.Sprintf("invalid env file %s: %v", path, err)}
	}
	return nil
}
