package main

import "github.com/forPelevin/yttranscriber/internal/cli"

func main() {
	cli.Main()
}
