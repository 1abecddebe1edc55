package main

import "rental-backend/cmd/rentalctl/commands"

func main() {
	commands.Execute()
}
