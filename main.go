package main

import "github.com/notargets/gopulse/cmd"

func main() {
	cmd.Execute()
}
