package main

import "github.com/lepinkainen/readnext/cmd"

// execute is a variable so tests can stub the CLI entry point.
var execute = cmd.Execute

func main() {
	execute()
}
