package main

import "github.com/fgrehm/hatch/cmd"

func main() {
	cmd.Execute()
}
