// Package sshconfig reads and writes flat OpenSSH client configuration files:
// a sequence of Host blocks, each holding a fixed vocabulary of keys.
//
// Only explicit Host blocks are understood. Include, Match, host pattern
// matching and comments are not modelled; comments are dropped on read.
package sshconfig

// Key is one recognized configuration attribute name.
type Key int

const (
	HostName Key = iota
	User
	IdentityFile
	IdentitiesOnly
	LogLevel
	Port
	UserKnownHostsFile
	PasswordAuthentication
	StrictHostKeyChecking
)

// keyNames is the single source of truth for the vocabulary. Its order is the
// canonical display and serialization order.
var keyNames = [...]string{
	HostName:               "HostName",
	User:                   "User",
	IdentityFile:           "IdentityFile",
	IdentitiesOnly:         "IdentitiesOnly",
	LogLevel:               "LogLevel",
	Port:                   "Port",
	UserKnownHostsFile:     "UserKnownHostsFile",
	PasswordAuthentication: "PasswordAuthentication",
	StrictHostKeyChecking:  "StrictHostKeyChecking",
}

var keyByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for i, n := range keyNames {
		m[n] = Key(i)
	}
	return m
}()

// AllKeys returns every Key in canonical order. The slice is a fresh copy.
func AllKeys() []Key {
	out := make([]Key, len(keyNames))
	for i := range keyNames {
		out[i] = Key(i)
	}
	return out
}

// NumKeys is the size of the vocabulary.
func NumKeys() int { return len(keyNames) }

// KeyAt returns the key at position i of the canonical order.
func KeyAt(i int) (Key, bool) {
	if i < 0 || i >= len(keyNames) {
		return 0, false
	}
	return Key(i), true
}

// ParseKey resolves a textual key name. Matching is exact and case-sensitive.
func ParseKey(name string) (Key, bool) {
	k, ok := keyByName[name]
	return k, ok
}

// Valid reports whether k belongs to the vocabulary.
func (k Key) Valid() bool {
	return k >= 0 && int(k) < len(keyNames)
}

func (k Key) String() string {
	if !k.Valid() {
		return "Key(?)"
	}
	return keyNames[k]
}
