package main

import "agenda-backend/cmd"

func main() {
	cmd.Execute()
}
