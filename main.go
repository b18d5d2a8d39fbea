package main

import "github.com/iksnae/session-handoff/cmd"

func main() {
	cmd.Execute()
}
