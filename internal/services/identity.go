package services

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/tyler-smith/go-bip39/wordlists"
)

// wordlist is the BIP39 English wordlist (2048 words).
var wordlist = wordlists.English

// IdentityService names anonymous attendee connections so join
// notifications read "User HappyTiger42 has joined" instead of a UUID.
type IdentityService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewIdentityService creates an IdentityService with its own random source.
func NewIdentityService() *IdentityService {
	return &IdentityService{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateName returns a PascalCase name like "HappyTiger42". Names are not
// unique; the connection id is the identity.
func (s *IdentityService) GenerateName() string {
	s.mu.Lock()
	word1 := wordlist[s.rng.Intn(len(wordlist))]
	word2 := wordlist[s.rng.Intn(len(wordlist))]
	num := s.rng.Intn(100)
	s.mu.Unlock()
	return fmt.Sprintf("%s%s%d", capitalize(word1), capitalize(word2), num)
}

// capitalize returns the string with its first letter uppercased.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
