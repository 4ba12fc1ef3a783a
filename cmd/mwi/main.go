package main

import (
	"mwi/cmd/mwi/handlers"
)

func main() {
	handlers.Execute()
}
