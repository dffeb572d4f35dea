package main

import "eventhub/cmd/eventhub/cmd"

func main() {
	cmd.Execute()
}
