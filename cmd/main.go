package main

import (
	"fmt"
	"os"

	"github.com/quka-ai/course-console/cmd/service"
)

func main() {
	if err := service.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
