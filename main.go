package main

import "propensity/cmd"

func main() {
	cmd.Execute()
}
