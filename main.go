package main

import "github.com/bolsinho/bolsinho/cmd"

func main() {
	cmd.Execute()
}
