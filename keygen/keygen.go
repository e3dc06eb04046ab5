// Command keygen generates and validates the 'uid_key' used to obfuscate object IDs.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/xtea"
)

// XTEA key size.
const uidKeyLength = 16

func main() {
	var uidkey = flag.String("validate", "", "uid_key to validate")

	flag.Parse()

	var code int
	if *uidkey != "" {
		code = validate(*uidkey)
	} else {
		code = generate()
	}
	os.Exit(code)
}

// generate prints a new random key suitable for 'store_config.uid_key'.
func generate() int {
	key, err := newKey()
	if err != nil {
		fmt.Println("Failed to generate key:", err)
		return 1
	}
	fmt.Printf("uid_key: %s\n", key)
	return 0
}

func newKey() (string, error) {
	data := make([]byte, uidKeyLength)
	if _, err := rand.Read(data); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// validate checks that the key is a base64-encoded 16 byte XTEA key.
func validate(uidkey string) int {
	data, err := base64.StdEncoding.DecodeString(uidkey)
	if err != nil {
		fmt.Println("INVALID: failed to decode base64:", err)
		return 1
	}
	if len(data) != uidKeyLength {
		fmt.Printf("INVALID: key must be %d bytes long, got %d\n", uidKeyLength, len(data))
		return 1
	}
	if _, err := xtea.NewCipher(data); err != nil {
		fmt.Println("INVALID:", err)
		return 1
	}
	fmt.Println("Valid uid_key")
	return 0
}
