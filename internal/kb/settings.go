package kb

import "database/sql"

// Settings is a small key/value side table for configuration that is
// not entity data. Instructions are the only key the tool surface
// exposes today.

const settingInstructions = "instructions"

func (s *Store) getSetting(key string) (string, error) {
	query := s.d.rebind("SELECT value FROM " + colSettings + " WHERE key = ?")
	var value string
	err := s.db.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", storeErr("read setting "+key, err)
	}
	return value, nil
}

func (s *Store) setSetting(key, value string) error {
	query := s.d.rebind(
		"INSERT INTO " + colSettings + " (key, value, updated_at) VALUES (?, ?, ?) " +
			"ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at")
	if _, err := s.db.Exec(query, key, value, Now()); err != nil {
		return storeErr("write setting "+key, err)
	}
	return nil
}

// Instructions returns the stored caller instructions, empty when unset.
func (s *Store) Instructions() (string, error) {
	return s.getSetting(settingInstructions)
}

// UpdateInstructions replaces the stored caller instructions.
func (s *Store) UpdateInstructions(content string) error {
	if content == "" {
		return invalidInput("instructions content is required")
	}
	return s.setSetting(settingInstructions, content)
}
