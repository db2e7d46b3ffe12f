package main

import (
	"os"

	"github.com/amirbrooks/todo-shell/internal/cli"
	"github.com/amirbrooks/todo-shell/internal/config"
)

func main() {
	code := cli.Run(os.Stdin, os.Stdout, config.TasksFile())
	os.Exit(code)
}
