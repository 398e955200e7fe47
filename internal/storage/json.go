package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starford/othala/internal/apperr"
)

// LoadJSON loads and decodes the document under key into target. A missing
// document is reported as ErrNotExist so callers can seed defaults; a decode
// failure wraps apperr.ErrParse so corruption is never mistaken for absence.
func LoadJSON[T any](p Provider, key string, target *T) error {
	data, err := p.Load(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("storage: decode %s: %w: %w", key, apperr.ErrParse, err)
	}
	return nil
}

// SaveJSON encodes value and saves it under key.
func SaveJSON[T any](p Provider, key string, value *T) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	return p.Save(key, data)
}

// IsNotExist reports whether err means the document was never saved.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}
