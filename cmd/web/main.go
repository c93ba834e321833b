package main

import "permiso_backend/internal/app"

func main() {
	app.Run()
}
