package main

import "github.com/nguyentantai21042004/meeting-minutes/cmd/minutes/commands"

func main() {
	commands.Execute()
}
