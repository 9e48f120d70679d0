package main

import "possync/cmd/client/cmd"

func main() {
	cmd.Execute()
}
