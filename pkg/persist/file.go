package persist

import (
	"fmt"
	"os"
	"path/filepath"
)

const stateFileMode = 0o644

// WriteFile encodes state to path. The data goes to a temporary file in the
// same directory first and is renamed into place, so readers never observe
// a partial file.
func WriteFile(path string, codec Codec, state any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create state file: %w", err)
	}

	tmpName := tmp.Name()

	defer os.Remove(tmpName) // no-op after a successful rename

	err = codec.Encode(tmp, state)
	if err != nil {
		tmp.Close()

		return fmt.Errorf("encode state: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("close state file: %w", err)
	}

	err = os.Chmod(tmpName, stateFileMode)
	if err != nil {
		return fmt.Errorf("chmod state file: %w", err)
	}

	err = os.Rename(tmpName, path)
	if err != nil {
		return fmt.Errorf("rename state file: %w", err)
	}

	return nil
}

// ReadFile decodes the state stored at path. The state parameter must be a
// pointer to the target value.
func ReadFile(path string, codec Codec, state any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	err = codec.Decode(file, state)
	if err != nil {
		return fmt.Errorf("decode state: %w", err)
	}

	return nil
}
