package main

import "repository-dist/internal/cli"

func main() {
	cli.Execute()
}
