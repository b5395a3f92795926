package main

import "github.com/fenix-io/kayak-calc-sub001/cmd"

func main() {
	cmd.Execute()
}
