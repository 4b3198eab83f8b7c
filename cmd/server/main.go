package main

import (
	"os"

	"chatwithme/internal/app"
)

func main() {
	os.Exit(app.Run())
}
