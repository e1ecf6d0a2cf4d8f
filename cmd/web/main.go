package main

import "folio_backend/internal/app"

func main() {
	app.Run()
}
