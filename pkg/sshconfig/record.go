package sshconfig

import "strings"

// Record is one parsed Host block.
type Record struct {
	// Host is the pattern string from the Host line, kept verbatim.
	Host string

	// Fields holds at most one value per key. Iteration order of the map is
	// irrelevant; use Keys for canonical order.
	Fields map[Key]string
}

// NewRecord returns a record with an empty field mapping.
func NewRecord(host string) Record {
	return Record{Host: host, Fields: map[Key]string{}}
}

// Get returns the value of k and whether it is present.
func (r Record) Get(k Key) (string, bool) {
	v, ok := r.Fields[k]
	return v, ok
}

// Set inserts or overwrites k with v trimmed of surrounding whitespace. An
// empty value removes k: a key line with no value cannot be written back.
// Keys outside the vocabulary are ignored.
func (r *Record) Set(k Key, v string) {
	if !k.Valid() {
		return
	}
	v = strings.TrimSpace(v)
	if v == "" {
		r.Delete(k)
		return
	}
	if r.Fields == nil {
		r.Fields = map[Key]string{}
	}
	r.Fields[k] = v
}

// Delete removes k. It reports whether the key was present.
func (r *Record) Delete(k Key) bool {
	if _, ok := r.Fields[k]; !ok {
		return false
	}
	delete(r.Fields, k)
	return true
}

// Keys returns the present keys in canonical order.
func (r Record) Keys() []Key {
	out := make([]Key, 0, len(r.Fields))
	for _, k := range AllKeys() {
		if _, ok := r.Fields[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	c := Record{Host: r.Host, Fields: make(map[Key]string, len(r.Fields))}
	for k, v := range r.Fields {
		c.Fields[k] = v
	}
	return c
}

// CloneAll deep-copies a record sequence.
func CloneAll(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// Mock returns a small fixed set of records used as demo data when no input
// file is wanted.
func Mock() []Record {
	mk := func(host string, kv map[Key]string) Record {
		r := NewRecord(host)
		for k, v := range kv {
			r.Set(k, v)
		}
		return r
	}
	return []Record{
		mk("bastion", map[Key]string{
			HostName:     "bastion.example.com",
			User:         "ops",
			IdentityFile: "~/.ssh/id_ed25519",
			Port:         "2222",
		}),
		mk("db-primary", map[Key]string{
			HostName:               "10.0.12.4",
			User:                   "postgres",
			PasswordAuthentication: "no",
		}),
		mk("lab-*", map[Key]string{
			StrictHostKeyChecking: "no",
			UserKnownHostsFile:    "/dev/null",
			LogLevel:              "ERROR",
		}),
		mk("github.com", map[Key]string{
			User:           "git",
			IdentityFile:   "~/.ssh/github",
			IdentitiesOnly: "yes",
		}),
	}
}
