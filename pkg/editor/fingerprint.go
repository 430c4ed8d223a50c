package editor

import (
	"os"
	"strings"

	"golang.org/x/crypto/ssh"

	"sshcfg/pkg/sshconfig"
)

// fingerprints caches SHA256 fingerprints of IdentityFile public keys by
// configured path. A failed lookup is cached as "".
type fingerprints map[string]string

// lookup returns the fingerprint of path's public half (path+".pub", or path
// itself when it already ends in .pub). Missing or unparsable files yield "".
func (f fingerprints) lookup(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if fp, ok := f[path]; ok {
		return fp
	}
	fp := publicKeyFingerprint(path)
	f[path] = fp
	return fp
}

func publicKeyFingerprint(path string) string {
	p := sshconfig.ExpandPath(path)
	if !strings.HasSuffix(p, ".pub") {
		p += ".pub"
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return ""
	}
	pk, _, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return ""
	}
	return ssh.FingerprintSHA256(pk)
}
