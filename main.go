package main

import "gspotify/cmd"

func main() {
	cmd.Execute()
}
