package main

import "benri/internal/cli"

func main() {
	cli.Execute()
}
