package main

import "fazservico_backend/internal/app"

func main() {
	app.Run()
}
