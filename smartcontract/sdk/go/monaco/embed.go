package monaco

import (
	_ "embed"
	"sync"

	"github.com/monaco-dca/monaco/smartcontract/sdk/go/idl"
)

//go:embed monaco.json
var idlJSON []byte

var loadDefaultIDL = sync.OnceValues(func() (*idl.IDL, error) {
	return idl.Parse(idlJSON)
})

// DefaultIDL returns the interface description bundled with the SDK. It is
// used when no IDL file from a local build is available.
func DefaultIDL() (*idl.IDL, error) {
	return loadDefaultIDL()
}

// LoadIDL loads the IDL at path, falling back to the bundled one when path
// is empty.
func LoadIDL(path string) (*idl.IDL, error) {
	if path == "" {
		return DefaultIDL()
	}
	return idl.Load(path)
}
