//go:build !unix

package preflight

import "os"

// checkAccess falls back to opening the directory where access(2) is not
// available; write permission is not inspected.
func checkAccess(path string, _ bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
