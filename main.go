package main

import "github.com/leandrodaf/chordpattern/cmd"

func main() {
	cmd.Execute()
}
