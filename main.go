package main

import "drishti-cli/cmd"

func main() {
	cmd.Execute()
}
