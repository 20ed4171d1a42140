// Command btorsim simulates a BTOR2 sequential model with random inputs,
// or checks a supplied witness trace against one.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "*** 'btorsim' %s\n", err)
		os.Exit(1)
	}
}
