package rootpath

import "path/filepath"

// Join resolves the project root and appends elem to it.
func Join(elem ...string) (string, error) {
	dir, err := Resolve()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}

// SystemDir holds the environment file, the config file and the logs.
func SystemDir() (string, error) {
	return Join("system")
}

// EnvFile is the path of the .env file read by the environment store.
func EnvFile() (string, error) {
	return Join("system", ".env")
}

// LogsDir is where the file backend appends its records.
func LogsDir() (string, error) {
	return Join("system", "logs")
}

// Models is the directory holding model schemas.
func Models() (string, error) {
	return Join("adam", "schemas")
}

// Model returns the path of a single model file.
func Model(name string) (string, error) {
	return Join("adam", "schemas", name)
}

// Assets is the root of the chat assets tree.
func Assets() (string, error) {
	return Join("adam", "assets")
}

// RawChat returns the path of an unprocessed chat export.
func RawChat(name string) (string, error) {
	return Join("adam", "assets", "raw_chats", name)
}

// ProcessedChat returns the path of a processed chat.
func ProcessedChat(name string) (string, error) {
	return Join("adam", "assets", "processed_chats", name)
}
