// newsforge is the operator CLI: it submits jobs to a running newsforged and
// inspects their status and artifacts.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
