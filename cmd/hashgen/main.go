// Command hashgen prints a bcrypt hash for an admin password, to be
// inserted into the users table by hand.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Enter the admin account password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}

	fmt.Print("Confirm the password: ")
	confirm, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read confirmation: %v", err)
	}

	password = strings.TrimRight(password, "\r\n")
	confirm = strings.TrimRight(confirm, "\r\n")

	if password == "" {
		log.Fatal("Password cannot be empty")
	}
	if password != confirm {
		log.Fatal("Passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	fmt.Println("Hash generated successfully:")
	fmt.Println(string(hash))
}
