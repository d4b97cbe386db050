package main

import (
	"os"

	foldr_go "foldr-lang-go/foldr-go"
)

func main() {
	os.Exit(foldr_go.RealMain(os.Args))
}
