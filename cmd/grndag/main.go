package main

import "github.com/acpaulo/causal-inference-short-course/cmd/grndag/commands"

func main() {
	commands.Execute()
}
