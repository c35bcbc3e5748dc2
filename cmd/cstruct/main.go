package main

import "github.com/layoutlabs/cstruct-go/cmd/cstruct/cmd"

func main() {
	cmd.Execute()
}
