package main

import "bite/cmd/bite-cli/cmd"

func main() {
	cmd.Execute()
}
