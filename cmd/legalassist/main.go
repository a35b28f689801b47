// Command legalassist turns hearing recordings into legal reports: a
// diarized transcript, the closest articles of the legal corpus and an LLM
// summary with recommendations.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
