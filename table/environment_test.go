package table

import (
	"os"
	"path/filepath"
	"testing"
)

func Environment(t *testing.T, f func(filename string)) {
	filename := filepath.Join(t.TempDir(), "table.json")
	defer os.Remove(filename)

	f(filename)
}

func writeTable(filename, content string) {
	err := os.WriteFile(filename, []byte(content), 0666)
	if err != nil {
		panic(err)
	}
}

func readTable(filename string) string {
	data, err := os.ReadFile(filename)
	if err != nil {
		panic(err)
	}
	return string(data)
}
