package main

import "mdlint/cmd/mdlint/cmd"

func main() {
	cmd.Execute()
}
