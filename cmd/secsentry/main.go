package main

import "secsentry/internal/cli"

func main() {
	cli.Execute()
}
