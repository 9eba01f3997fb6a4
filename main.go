package main

import "github.com/zorgspace/slashbot/cmd"

func main() {
	cmd.Execute()
}
