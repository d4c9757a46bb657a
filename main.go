package main

import "schedule-api/cmd"

func main() {
	cmd.Execute()
}
