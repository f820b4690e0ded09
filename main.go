package main

import "github.com/sadopc/timechunk/internal/cli"

func main() {
	cli.Execute()
}
