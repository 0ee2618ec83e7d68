package main

import (
	"bloghub/internal/cli"
)

func main() {
	cli.Execute()
}
