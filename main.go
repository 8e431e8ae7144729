package main

import cmd "github.com/patzick/explore-openapi-snapshot/cmd/openapi-snapshot"

func main() {
	cmd.Main()
}
