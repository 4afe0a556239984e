package main

import (
	"github.com/maritimebear/godhn/cmd"
)

func main() {
	cmd.Execute()
}
