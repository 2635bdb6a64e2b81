package utils

import (
	"testing"

	"github.com/fulldump/biff"
)

func TestGetKeys(t *testing.T) {
	keys := GetKeys(map[string]int{"b": 1, "a": 2, "c": 3})
	biff.AssertEqual(keys, []string{"a", "b", "c"})

	biff.AssertEqual(GetKeys(map[string]int{}), []string{})
}
