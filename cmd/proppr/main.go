// proppr answers queries over grounded proof graphs with a restart-biased
// random walk and manages the learned parameter tables that weight it.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
