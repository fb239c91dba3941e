package main

import "github.com/andrescamacho/processor-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
