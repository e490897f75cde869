// Command nativefn loads the built-in native function modules and invokes
// them directly, over the byte channel, or through the wazero host module.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
