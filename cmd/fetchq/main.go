package main

import "fetchq/cmd/fetchq/cmd"

func main() {
	cmd.Execute()
}
