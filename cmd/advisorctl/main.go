package main

// Command-line access to the advisor:
//   go run ./cmd/advisorctl analyze --input context.json
//   go run ./cmd/advisorctl library push library.yaml

import (
	"fmt"
	"os"

	"nac-advisor/internal/shared/config"
)

func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
