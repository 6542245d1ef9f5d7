package configs

import (
	"bytes"

	"github.com/BurntSushi/toml"
)

// EncodeTOML serializes a struct to TOML bytes.
func EncodeTOML(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeTOML parses TOML bytes into a struct.
func DecodeTOML(b []byte, data interface{}) error {
	_, err := toml.Decode(string(b), data)
	return err
}

// LoadTOML loads a TOML file into a struct.
func LoadTOML(filePath string, data interface{}) error {
	_, err := toml.DecodeFile(filePath, data)
	return err
}
