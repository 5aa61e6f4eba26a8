//go:build race

package localauth

import "golang.org/x/crypto/bcrypt"

// Race-enabled builds use the minimum cost so credential tests stay fast.
func passwordHashCost() int {
	return bcrypt.MinCost
}
