package registry

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// GetDomainHash derives the key a (name, tld) pair is stored under. Each label
// is hashed on its own before the two digests are combined, so no other split
// of the same characters produces the same key.
func GetDomainHash(name, tld string) common.Hash {
	nameHash := keccak256([]byte(normalizeName(name)))
	tldHash := keccak256([]byte(normalizeTLD(tld)))
	return common.BytesToHash(keccak256(nameHash, tldHash))
}

func normalizeName(name string) string {
	return strings.ToLower(name)
}

// "com" and ".com" name the same top-level domain.
func normalizeTLD(tld string) string {
	return "." + strings.TrimPrefix(strings.ToLower(tld), ".")
}

func keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}
