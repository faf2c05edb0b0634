package main

import "aashub/internal/cli"

func main() {
	cli.Execute()
}
