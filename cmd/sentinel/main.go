package main

import "go-sentinel/cli"

func main() {
	cli.Execute()
}
