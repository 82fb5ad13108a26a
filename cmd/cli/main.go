package main

import "studymate/cmd/cli/command"

func main() {
	command.Execute()
}
