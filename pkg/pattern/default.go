package pattern

import (
	"bytes"
	_ "embed"
	"sync"
)

//go:embed tables.yaml
var builtinTables []byte

var (
	defaultLib  *Library
	defaultOnce sync.Once
)

// Default returns the built-in library. It panics if the embedded tables
// fail to compile, which can only happen on a broken build.
func Default() *Library {
	defaultOnce.Do(func() {
		lib, err := Load(bytes.NewReader(builtinTables))
		if err != nil {
			panic("pattern: built-in tables: " + err.Error())
		}
		defaultLib = lib
	})
	return defaultLib
}
