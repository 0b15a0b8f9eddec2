package main

import (
	"context"
	"github.com/Avi18971911/tracepusher/internal/cli"
	"os"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], cli.DefaultDependencies()))
}
