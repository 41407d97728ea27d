package main

import "github.com/notargets/pdemeta/cmd"

func main() {
	cmd.Execute()
}
