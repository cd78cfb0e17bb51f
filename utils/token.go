package utils

import "math/rand"

// Ambiguous characters (0/O, 1/I/l) are excluded so codes survive being read
// off a bracelet display and typed into the app.
const pairingCharset = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz"

// GeneratePairingCode returns a short human-readable code used to link a
// bracelet to the owner's account.
func GeneratePairingCode(length int) string {
	code := make([]byte, length)
	for i := range code {
		code[i] = pairingCharset[rand.Intn(len(pairingCharset))]
	}
	return string(code)
}
