package main

import (
	"log"
	"os"

	_ "github.com/viant/scy/kms/blowfish"

	"github.com/augustosalazar/roble-go/shell"
)

func main() {
	if err := shell.Run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
