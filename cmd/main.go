package main

import (
	"os"
	"time"
)

func main() {
	runApp()
	time.Sleep(10 * time.Second)
	os.Exit(1)
}
