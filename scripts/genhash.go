// One-off: go run scripts/genhash.go [password]
package main

import (
	"fmt"
	"os"

	"github.com/vishnucprasad/gotodo-server/internal/auth"
)

func main() {
	password := "admin"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	h, err := auth.HashSecret(password)
	if err != nil {
		panic(err)
	}
	fmt.Print(h)
}
