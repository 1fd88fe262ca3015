package anchor

import (
	"crypto/sha256"
)

const (
	// GlobalNamespace prefixes the names of program instruction handlers.
	GlobalNamespace = "global"

	DiscriminatorSize = 8
)

// Discriminator returns the first eight bytes of sha256("<namespace>:<name>").
func Discriminator(namespace, name string) [DiscriminatorSize]byte {
	var discriminator [DiscriminatorSize]byte
	hash := sha256.Sum256([]byte(namespace + ":" + name))
	copy(discriminator[:], hash[:DiscriminatorSize])
	return discriminator
}

func GlobalDiscriminator(name string) [DiscriminatorSize]byte {
	return Discriminator(GlobalNamespace, name)
}
