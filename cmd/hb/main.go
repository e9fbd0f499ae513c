package main

import "habitline/cmd/hb/root"

func main() {
	root.Execute()
}
