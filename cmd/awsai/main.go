// Command awsai connects a hosted language model to a small set of read-only
// AWS tools and runs demonstration queries through them.
package main

import (
	"fmt"
	"os"

	"github.com/54b3r/awsai-go/cmd/awsai/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
