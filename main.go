package main

import (
	"github.com/actionsguard/actionsguard/cmd"
)

func main() {
	cmd.Execute()
}
