package main

import (
	"context"

	"go.windlass.io/windlass/cli/command"
)

func main() {
	command.Execute(context.Background())
}
