package main

import "github.com/jjenkins/whitehall/cmd"

func main() {
	cmd.Execute()
}
