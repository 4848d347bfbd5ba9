package rand

import (
	"crypto/rand"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// Address returns a random 20 byte address, used to identify a freshly
// deployed registry instance.
func Address() common.Address {
	return common.BytesToAddress(secureRandomBytes(common.AddressLength))
}

// secureRandomBytes returns the requested number of bytes using crypto/rand
func secureRandomBytes(length int) []byte {
	var randomBytes = make([]byte, length)
	_, err := rand.Read(randomBytes)
	if err != nil {
		logrus.Fatal("Unable to generate random bytes")
	}
	return randomBytes
}
