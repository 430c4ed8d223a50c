package sshconfig

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const indent = "  "

// Write serializes records: a Host line, one indented line per present key in
// canonical order, then a blank separator line. Values are written verbatim;
// keys whose value is blank are skipped.
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := fmt.Fprintf(bw, "Host %s\n", r.Host); err != nil {
			return err
		}
		for _, k := range r.Keys() {
			v := r.Fields[k]
			if strings.TrimSpace(v) == "" {
				continue
			}
			if _, err := fmt.Fprintf(bw, "%s%s %s\n", indent, k, v); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Format returns the serialized text of records.
func Format(records []Record) string {
	var buf bytes.Buffer
	_ = Write(&buf, records)
	return buf.String()
}

// WriteFile writes records to path atomically: the text goes to a sibling
// temp file which is then renamed over path. With backup set, an existing
// file at path is first copied to path+".bak" (overwriting an older backup).
func WriteFile(path string, records []Record, backup bool) error {
	path = ExpandPath(path)
	if strings.TrimSpace(path) == "" {
		return errors.New("write ssh config: empty path")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("write ssh config: create dir %s: %w", dir, err)
	}

	if backup {
		if data, err := os.ReadFile(path); err == nil {
			if err := os.WriteFile(path+".bak", data, 0o600); err != nil {
				return fmt.Errorf("write ssh config backup %s.bak: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read ssh config for backup %s: %w", path, err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write ssh config tmp in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := Write(tmp, records); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write ssh config tmp %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod ssh config tmp %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close ssh config tmp %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace ssh config %s: %w", path, err)
	}
	return nil
}

// ExpandPath expands environment variables and a leading "~/" in p.
func ExpandPath(p string) string {
	if p == "" {
		return ""
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, _ := os.UserHomeDir(); home != "" {
			if p == "~" {
				return home
			}
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
