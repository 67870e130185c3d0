package main

import "github.com/copperline/viastitch/cmd/viastitch/cmd"

func main() {
	cmd.Execute()
}
