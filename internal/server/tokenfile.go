package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrEmptyToken is returned when a token file carries no token.
var ErrEmptyToken = errors.New("token file has no token")

// TokenFile is what a running server leaves next to its database so the
// token command can print a working dashboard link.
type TokenFile struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// WriteTokenFile stores tf at path, readable by the owner only.
func WriteTokenFile(path string, tf TokenFile) error {
	data, err := json.Marshal(tf)
	if err != nil {
		return fmt.Errorf("failed to encode token file: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// ReadTokenFile loads the token file at path. Errors from the file system
// are returned unwrapped by os so callers can test for fs.ErrNotExist.
func ReadTokenFile(path string) (TokenFile, error) {
	var tf TokenFile

	data, err := os.ReadFile(path)
	if err != nil {
		return tf, err
	}
	if err := json.Unmarshal(data, &tf); err != nil {
		return tf, fmt.Errorf("failed to decode token file: %w", err)
	}
	if tf.Token == "" {
		return tf, ErrEmptyToken
	}
	return tf, nil
}
