package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ExportFileName is the default download name for a station selection,
// e.g. data_Aotizhongxin.csv or data_Changping_Dongsi.xlsx.
func ExportFileName(stations []string, ext string) string {
	parts := make([]string, 0, len(stations))
	for _, s := range stations {
		if s = unsafeName.ReplaceAllString(strings.TrimSpace(s), "_"); s != "" {
			parts = append(parts, s)
		}
	}
	name := "data"
	if len(parts) > 0 {
		name += "_" + strings.Join(parts, "_")
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}
