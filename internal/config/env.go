package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultEnvFile - файл с переменными окружения рядом с бинарником
const DefaultEnvFile = ".env"

// envSource отдает переменные окружения процесса,
// а при их отсутствии значения из .env файла
type envSource struct {
	lookup func(string) (string, bool)
	file   map[string]string
}

func newEnvSource(envFile string, lookup func(string) (string, bool)) (*envSource, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	src := &envSource{lookup: lookup, file: map[string]string{}}

	if envFile == "" {
		return src, nil
	}

	values, err := godotenv.Read(envFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return src, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
	}
	src.file = values

	return src, nil
}

func (e *envSource) get(key string) (string, bool) {
	if v, ok := e.lookup(key); ok && v != "" {
		return v, true
	}
	v, ok := e.file[key]
	return v, ok && v != ""
}

func (e *envSource) string(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envSource) duration(key string, dst *Duration) error {
	v, ok := e.get(key)
	if !ok {
		return nil
	}
	if err := dst.UnmarshalText([]byte(v)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func (e *envSource) size(key string, dst *ByteSize) error {
	v, ok := e.get(key)
	if !ok {
		return nil
	}
	if err := dst.UnmarshalText([]byte(v)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func (e *envSource) bool(key string, dst *bool) error {
	v, ok := e.get(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	*dst = b
	return nil
}
