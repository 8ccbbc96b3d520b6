package main

import "transitctl/cmd"

func main() {
	cmd.Execute()
}
